package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/gorilla/mux"
)

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	// Note: must set header before write header
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	if err == nil {
		jsonData, _ := json.Marshal(resp)
		_, _ = w.Write(jsonData)
	} else {
		fmt.Fprintln(w, err.Error())
	}
}

// Handlers read only rest handlers
type Handlers struct {
	svc *walletapi.Service
}

// NewHandlers new handlers
func NewHandlers(svc *walletapi.Service) *Handlers {
	return &Handlers{svc: svc}
}

// VersionInfoHandler handler
func (h *Handlers) VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, params.VersionWithMeta, nil)
}

// ServerInfoHandler handler
func (h *Handlers) ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.svc.GetServerInfo(), nil)
}

// NetworksHandler handler
func (h *Handlers) NetworksHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.svc.GetNetworks(), nil)
}

// ProvidersHandler handler
func (h *Handlers) ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.svc.GetProviders(), nil)
}

// StateHandler handler
func (h *Handlers) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.svc.GetState(), nil)
}

// AccountsHandler handler
func (h *Handlers) AccountsHandler(w http.ResponseWriter, r *http.Request) {
	chain := mux.Vars(r)["chain"]
	res, err := h.svc.GetAccounts(chain)
	writeResponse(w, res, err)
}
