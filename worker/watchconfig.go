package worker

import (
	"context"
	"path/filepath"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/fsnotify/fsnotify"
)

// StartWatchConfigJob reload gateways when the config file changes
func StartWatchConfigJob(ctx context.Context, configFile string, backends Resetter) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify: new watcher failed", "err", err)
		return
	}
	defer watcher.Close()

	file := filepath.Clean(configFile)
	if err = watcher.Add(filepath.Dir(file)); err != nil {
		log.Error("fsnotify: add config path failed", "err", err)
		return
	}
	log.Infof("fsnotify: start to watch config file %v", file)

	ops := []fsnotify.Op{
		fsnotify.Write,
		fsnotify.Create,
	}

	for {
		select {
		case <-ctx.Done():
			logWorker("watchconfig", "stop config watch job")
			return
		case ev, ok := <-watcher.Events:
			if !ok { // Channel was closed
				log.Error("fsnotify: channel was closed")
				return
			}
			if filepath.Clean(ev.Name) != file {
				continue
			}
			log.Trace("fsnotify: watcher event", "file", ev.Name, "op", ev.Op)
			for _, op := range ops {
				if ev.Has(op) {
					reloadGateways(file, backends)
					break
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok { // Channel was closed
				log.Error("fsnotify: channel was closed")
				return
			}
			log.Warn("fsnotify: watcher error", "err", err)
		}
	}
}

func reloadGateways(file string, backends Resetter) {
	if err := params.ReloadGateways(file); err != nil {
		log.Warn("fsnotify: reload gateways failed", "err", err)
		return
	}
	if backends != nil {
		backends.Reset()
	}
	log.Info("fsnotify: reload gateways success")
}
