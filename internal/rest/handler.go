package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/model"
)

const peerIDParam = "peer_id"

type Handler struct {
	repository   DBRepo
	validator    Validator
	jwtGenerator JWTGenerator
	peerLimit    uint64
}

func New(repo DBRepo, validator Validator, jwtGenerator JWTGenerator, peerLimit uint64) *Handler {
	return &Handler{
		repository:   repo,
		validator:    validator,
		jwtGenerator: jwtGenerator,
		peerLimit:    peerLimit,
	}
}

// Routes mounts the chat API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/token/connect", h.GetConnectAccessToken)
		r.Get("/token/subscribe", h.GetSubscribeToken)
		r.Get("/peers", h.SearchPeers)
		r.Get("/peers/{peer_id}/messages", h.GetConversation)
		r.Post("/peers/{peer_id}/messages", h.SendMessage)
	})
}

func (h *Handler) GetConnectAccessToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConnectAccessToken")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateConnectToken(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate access token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate access token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("generated access token for user %s", userUUID))

	h.writeJSON(w, ConnectTokenResponse{Token: token, ExpiresAt: expiresAt}, http.StatusOK)
}

func (h *Handler) GetSubscribeToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetSubscribeToken")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	token, channel, expiresAt, err := h.jwtGenerator.GenerateSubscribeToken(userUUID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate subscribe token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate subscribe token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("generated subscribe token for user %s, channel %s", userUUID, channel))

	h.writeJSON(w, SubscribeTokenResponse{Token: token, ExpiresAt: expiresAt, Channel: channel}, http.StatusOK)
}

func (h *Handler) SearchPeers(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SearchPeers")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	peers, err := h.repository.SearchPeers(r.Context(), r.URL.Query().Get("query"), userUUID, h.peerLimit)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to search peers: %v", err))
		h.writeError(w, fmt.Sprintf("failed to search peers: %v", err), http.StatusInternalServerError)
		return
	}

	response := PeersResponse{Peers: make([]model.Identity, 0, len(peers))}
	response.Peers = append(response.Peers, peers...)

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConversation")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to find uuid")
		h.writeError(w, "failed to find uuid", http.StatusInternalServerError)
		return
	}

	peerID := chi.URLParam(r, peerIDParam)
	if err := h.validator.ValidatePeer(userUUID, peerID); err != nil {
		logger.Error(fmt.Sprintf("peer validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("peer validation failed: %v", err), http.StatusBadRequest)
		return
	}

	messages, err := h.repository.QueryConversation(r.Context(), model.Pair{CurrentUserID: userUUID, PeerID: peerID})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to fetch messages: %v", err))
		h.writeError(w, fmt.Sprintf("failed to fetch messages: %v", err), http.StatusInternalServerError)
		return
	}

	response := ConversationResponse{Messages: make([]Message, len(messages))}
	for i, msg := range messages {
		response.Messages[i] = toMessage(msg)
	}

	h.writeJSON(w, response, http.StatusOK)
}

// SendMessage stores a message. Delivery to open sessions happens through the insert notification.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	senderID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get sender ID")
		h.writeError(w, "failed to get sender ID", http.StatusInternalServerError)
		return
	}

	peerID := chi.URLParam(r, peerIDParam)
	if err := h.validator.ValidatePeer(senderID, peerID); err != nil {
		logger.Error(fmt.Sprintf("peer validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("peer validation failed: %v", err), http.StatusBadRequest)
		return
	}

	content, err := h.validator.ValidateContent(req.Content)
	if err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	err = h.repository.InsertMessage(r.Context(), model.NewMessage{
		SenderID:    senderID,
		RecipientID: peerID,
		Content:     content,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("failed to save message: %v", err))
		h.writeError(w, fmt.Sprintf("failed to send message: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, SendMessageResponse{Accepted: true}, http.StatusAccepted)
}

// ----------------------------- helpers -----------------------------

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Error{Error: message})
}
