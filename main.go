package main

import (
	"log"
	"math/rand"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"royale/server/account"
	"royale/server/auth"
	"royale/server/srv"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func wsHandler(a *auth.Auth, h *srv.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := a.ParseToken(auth.TokenFromRequest(r))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		h.HandleWS(conn, username)
	}
}

func main() {
	dataDir := "data"

	au, err := auth.NewAuth(dataDir)
	if err != nil {
		log.Fatal("auth init:", err)
	}
	accounts := account.NewStore(filepath.Join(dataDir, "accounts"))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	mm := srv.NewMatchmaker(accounts, rng)
	hub := srv.NewHub(mm, accounts)
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/register", au.HandleRegister)
	mux.HandleFunc("/login", au.HandleLogin)
	mux.HandleFunc("/ws", wsHandler(au, hub))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	srvAddr := ":8080"
	s := &http.Server{
		Addr:         srvAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Println("server listening on", srvAddr)
	log.Fatal(s.ListenAndServe())
}
