package api

import (
	"net/http"
	"time"

	"github.com/go-json-experiment/json"
	"golang.org/x/net/websocket"
)

// NotificationsStream pushes new notifications for the authenticated account
// over a websocket. Losing a frame is fine; the log endpoint is authoritative.
func NotificationsStream(env *Env, w http.ResponseWriter, r *http.Request) error {
	user, err := env.authenticate(r)
	if err != nil {
		return err
	}
	svr := websocket.Server{
		Handler: func(ws *websocket.Conn) {
			logger := env.Log().With("account", user.ID, "remote", ws.Request().RemoteAddr)
			logger.Info("stream connected")
			defer func() {
				logger.Info("stream disconnected")
				ws.Close()
			}()

			// drain the client side so we notice it going away
			readErr := make(chan error, 1)
			go func() {
				var discard struct{}
				dec := json.DecodeOptions{}.NewDecoder(ws)
				for {
					if err := (json.UnmarshalOptions{}).UnmarshalNext(dec, &discard); err != nil {
						readErr <- err
						return
					}
				}
			}()

			ctx := ws.Request().Context()
			sub := env.Mux.Subscribe(user.ID)
			defer sub.Cancel()
			for {
				select {
				case err := <-readErr:
					logger.Info("stream read failed", "error", err)
					return
				case <-ctx.Done():
					return
				case payload, ok := <-sub.C:
					if !ok {
						// we were too slow and got dropped
						return
					}
					frame := map[string]any{
						"event": payload.Event,
						"data":  payload.Data,
					}
					if err := json.MarshalFull(ws, frame); err != nil {
						logger.Info("stream write failed", "error", err)
						return
					}
				case <-time.After(30 * time.Second):
					if _, err := ws.Write([]byte("{}")); err != nil {
						return
					}
				}
			}
		},
	}
	svr.ServeHTTP(w, r)
	return nil
}
