package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"claimwire/internal/domain"
	"claimwire/internal/messaging"
	"claimwire/internal/util/log"
)

// Server routes directory and mailbox traffic for relayd.
type Server struct {
	directory DirectoryStore
	mailbox   MailboxStore
	upgrader  websocket.Upgrader

	mu   sync.Mutex
	subs map[domain.Address]map[*websocket.Conn]bool
}

// New wires a Server over the given stores.
func New(directory DirectoryStore, mailbox MailboxStore) *Server {
	return &Server{
		directory: directory,
		mailbox:   mailbox,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subs: make(map[domain.Address]map[*websocket.Conn]bool),
	}
}

// Handler returns the relayd route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/directory", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/directory/{address}", s.handleResolve).Methods(http.MethodGet)
	r.HandleFunc("/mailbox/{address}", s.handlePost).Methods(http.MethodPost)
	r.HandleFunc("/mailbox/{address}", s.handleFetch).Methods(http.MethodGet)
	r.HandleFunc("/mailbox/{address}/ack", s.handleAck).Methods(http.MethodPost)
	r.HandleFunc("/subscribe", s.handleSubscribe).Methods(http.MethodGet)
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("relayd listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var pub domain.PublicIdentity
	if err := json.NewDecoder(r.Body).Decode(&pub); err != nil {
		http.Error(w, "bad registration: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !pub.Address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	if err := s.directory.Put(r.Context(), pub); err != nil {
		log.Error("directory put failed", zap.Error(err))
		http.Error(w, "directory unavailable", http.StatusInternalServerError)
		return
	}
	log.Info("registered", zap.String("address", pub.Address.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	address := domain.Address(mux.Vars(r)["address"])
	if !address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	pub, ok, err := s.directory.Get(r.Context(), address)
	if err != nil {
		log.Error("directory get failed", zap.Error(err))
		http.Error(w, "directory unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "unknown address", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pub)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	address := domain.Address(mux.Vars(r)["address"])
	if !address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}

	var env domain.EncryptedMessage
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "bad envelope: "+err.Error(), http.StatusBadRequest)
		return
	}
	if env.Receiver != address {
		http.Error(w, "envelope receiver does not match mailbox", http.StatusBadRequest)
		return
	}
	if err := messaging.VerifyEnvelope(env); err != nil {
		log.Warn("rejected envelope at ingest",
			zap.String("sender", env.Sender.String()),
			zap.String("receiver", env.Receiver.String()),
			zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id, err := newMessageID()
	if err != nil {
		http.Error(w, "id generation failed", http.StatusInternalServerError)
		return
	}
	env.MessageID = id
	env.ReceivedAt = time.Now().UnixMilli()

	if err := s.mailbox.Append(r.Context(), env); err != nil {
		log.Error("mailbox append failed", zap.Error(err))
		http.Error(w, "mailbox unavailable", http.StatusInternalServerError)
		return
	}
	s.pushLive(env)

	log.Info("queued envelope",
		zap.String("messageId", env.MessageID),
		zap.String("sender", env.Sender.String()),
		zap.String("receiver", env.Receiver.String()))
	writeJSON(w, http.StatusAccepted, struct {
		MessageID string `json:"messageId"`
	}{MessageID: env.MessageID})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	address := domain.Address(mux.Vars(r)["address"])
	if !address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	envs, err := s.mailbox.List(r.Context(), address, limit)
	if err != nil {
		log.Error("mailbox list failed", zap.Error(err))
		http.Error(w, "mailbox unavailable", http.StatusInternalServerError)
		return
	}
	if envs == nil {
		envs = []domain.EncryptedMessage{}
	}
	writeJSON(w, http.StatusOK, envs)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	address := domain.Address(mux.Vars(r)["address"])
	if !address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad ack: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		http.Error(w, "count must be positive", http.StatusBadRequest)
		return
	}
	if err := s.mailbox.Drop(r.Context(), address, req.Count); err != nil {
		log.Error("mailbox drop failed", zap.Error(err))
		http.Error(w, "mailbox unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	address := domain.Address(r.URL.Query().Get("address"))
	if !address.Valid() {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	s.addSub(address, conn)
	log.Info("subscriber attached", zap.String("address", address.String()))
	go s.reapOnClose(address, conn)
}

func (s *Server) addSub(address domain.Address, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[address] == nil {
		s.subs[address] = make(map[*websocket.Conn]bool)
	}
	s.subs[address][conn] = true
}

// reapOnClose blocks on the read side until the peer goes away, then
// removes the subscription.
func (s *Server) reapOnClose(address domain.Address, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[address], conn)
	conn.Close()
	log.Debug("subscriber detached", zap.String("address", address.String()))
}

// pushLive copies env to every live subscriber of its receiver. The
// mailbox remains the source of truth; a missed push is recovered by
// fetch.
func (s *Server) pushLive(env domain.EncryptedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.subs[env.Receiver] {
		if err := conn.WriteJSON(env); err != nil {
			log.Debug("dropping dead subscriber", zap.Error(err))
			conn.Close()
			delete(s.subs[env.Receiver], conn)
		}
	}
}

func newMessageID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response failed", zap.Error(err))
	}
}
