// Package server provides JSON/RESTful RPC service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/CrossChain-Wallet/cmd/utils"
	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/rpc/restapi"
	"github.com/anyswap/CrossChain-Wallet/rpc/rpcapi"
)

// RPCServiceName name of the json rpc service
const RPCServiceName = "xwallet"

// StartAPIServer start api server
func StartAPIServer(svc *walletapi.Service) {
	apiServer := params.GetWalletConfig().APIServer
	if apiServer == nil {
		log.Warn("no api server config, skip starting api server")
		return
	}
	apiPort := apiServer.Port
	allowedOrigins := apiServer.AllowedOrigins
	maxRequestsLimit := apiServer.MaxRequestsLimit
	if maxRequestsLimit <= 0 {
		maxRequestsLimit = 10 // default value
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins)
	lmt := tollbooth.NewLimiter(float64(maxRequestsLimit),
		&limiter.ExpirableOptions{
			DefaultExpirationTTL: 600 * time.Second,
		},
	)
	handler := tollbooth.LimitHandler(lmt, handlers.CORS(corsOptions...)(NewRouter(svc)))
	svr := http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 300 * time.Second,
		Handler:      handler,
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) && utils.IsCleanuping() {
				return
			}
			log.Fatal("ListenAndServe error", "err", err)
		}
	}()

	utils.TopWaitGroup.Add(1)
	go utils.WaitAndCleanup(func() { doCleanup(&svr) })
}

func doCleanup(svr *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := svr.Shutdown(ctx); err != nil {
		log.Error("Server Shutdown failed", "err", err)
	}
	log.Info("Close http server success")
}

// NewRouter routes of the json rpc and rest services
func NewRouter(svc *walletapi.Service) *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	err := rpcserver.RegisterService(rpcapi.NewWalletAPI(svc), RPCServiceName)
	if err != nil {
		log.Fatal("start rpc service failed", "err", err)
	}
	r.Handle("/rpc", rpcserver)

	rest := restapi.NewHandlers(svc)
	r.HandleFunc("/versioninfo", rest.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/serverinfo", rest.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/networks", rest.NetworksHandler).Methods("GET")
	r.HandleFunc("/providers", rest.ProvidersHandler).Methods("GET")
	r.HandleFunc("/state", rest.StateHandler).Methods("GET")
	r.HandleFunc("/accounts", rest.AccountsHandler).Methods("GET")
	r.HandleFunc("/accounts/{chain}", rest.AccountsHandler).Methods("GET")
	return r
}
