package websocket

import (
	"encoding/json"
	"net/http"

	ws "github.com/coder/websocket"
)

type HandlerOptions struct {
	// OriginPatterns lists the hosts allowed besides the gateway's own.
	OriginPatterns []string
	// Greeting, when set, builds the first message each page receives.
	Greeting func() Message
}

// HandleWebSocket upgrades requests and runs them as hub clients.
func HandleWebSocket(hub *Hub, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			hub.logger.Warn("accept", "error", err, "remote", r.RemoteAddr)
			return
		}

		var greeting []byte
		if opts.Greeting != nil {
			if greeting, err = json.Marshal(opts.Greeting()); err != nil {
				hub.logger.Error("marshal greeting", "error", err)
			}
		}

		hub.logger.Debug("client connected", "remote", r.RemoteAddr)
		NewClient(hub, conn, r.RemoteAddr).Run(r.Context(), greeting)
		hub.logger.Debug("client disconnected", "remote", r.RemoteAddr)
	}
}
