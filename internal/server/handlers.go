package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/klemjul/dobbychat/internal/logging"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type chatRequest struct {
	Message string `json:"message"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

type errorReply struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	personaID := r.PathValue("personaId")

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorReply{Error: "message is required"})
		return
	}

	reply, err := s.chatter.Handle(r.Context(), personaID, req.Message)
	if err != nil {
		logging.For(r.Context(), s.logger).Error("chat request failed", zap.String("persona", personaID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorReply{Error: MODEL_CALL_FAILED})
		return
	}

	writeJSON(w, http.StatusOK, chatReply{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
