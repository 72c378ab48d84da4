// Package httpapi is the external collaborator spec.md §6 describes as
// out of the trust engine's core: it marshals JSON requests into engine
// calls and marshals the signed blocks back out. None of the
// authorization or cryptographic logic lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/decred/slog"
	"github.com/empower1/trustchain/internal/block"
	"github.com/empower1/trustchain/internal/engine"
	"github.com/empower1/trustchain/internal/wire"
	"github.com/gorilla/mux"
)

// Server bridges HTTP requests to an *engine.Engine.
type Server struct {
	eng *engine.Engine
	log slog.Logger
}

// New builds an http.Handler serving the façade described in spec.md §6.
func New(eng *engine.Engine, logger slog.Logger) http.Handler {
	s := &Server{eng: eng, log: logger}

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/init-repo", s.handleInitRepo).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/access-control", s.handleAccessControl).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/commit", s.handleCommit).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/latest-hash/{repo_id}", s.handleLatestHash).Methods(http.MethodGet, http.MethodOptions)
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleInitRepo(w http.ResponseWriter, r *http.Request) {
	var req wire.InitRepoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	repoID, blk, err := s.eng.InitRepo(req.AdminKey)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.InitRepoResponse{
		RepoID: repoID,
		Block:  wire.FromAccessBlock(blk),
	})
}

func (s *Server) handleAccessControl(w http.ResponseWriter, r *http.Request) {
	var req wire.AccessControlRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	blk, err := s.eng.AccessControl(req.RepoID, block.Op(req.Operation), block.Role(req.Role), req.PublicKey, req.SignatureKey, req.Signature)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.AccessControlResponse{Block: wire.FromAccessBlock(blk)})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req wire.CommitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	blk, decryptedHex, err := s.eng.Commit(req.RepoID, block.Op(req.Operation), req.CommitHash, req.SignatureKey, req.Signature, req.Encrypted)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.CommitResponse{
		Block:     wire.FromContributionBlock(blk),
		Decrypted: decryptedHex,
	})
}

func (s *Server) handleLatestHash(w http.ResponseWriter, r *http.Request) {
	repoIDStr := mux.Vars(r)["repo_id"]
	repoID, err := strconv.ParseUint(repoIDStr, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, wire.ErrorResponse{Error: "repo_id must be an integer"})
		return
	}

	nonce := uint32(0)
	if n := r.URL.Query().Get("nonce"); n != "" {
		parsed, perr := strconv.ParseUint(n, 10, 32)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, wire.ErrorResponse{Error: "nonce must be an integer"})
			return
		}
		nonce = uint32(parsed)
	}

	reply, sig, err := s.eng.GetLatestHash(uint32(repoID), nonce)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.LatestHashResponse{
		Nonce:      reply.Nonce,
		LatestHash: reply.LatestHash,
		Signature:  sig,
	})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := ""
	var eerr *engine.Error
	if errors.As(err, &eerr) {
		kind = eerr.Kind.String()
		status = statusForKind(eerr.Kind)
	}
	s.log.Warnf("request failed: %v", err)
	writeJSON(w, status, wire.ErrorResponse{Error: err.Error(), Kind: kind})
}

func statusForKind(k engine.Kind) int {
	switch k {
	case engine.BadParameters, engine.BadFormat, engine.ShortBuffer:
		return http.StatusBadRequest
	case engine.NotFound:
		return http.StatusNotFound
	case engine.AccessDenied:
		return http.StatusForbidden
	case engine.SecurityFailure:
		return http.StatusUnauthorized
	case engine.OutOfCapacity:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, wire.ErrorResponse{Error: "malformed JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
