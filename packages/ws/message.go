package ws

import "github.com/abdul-hamid-achik/yhspec/packages/http"

// Message is one received socket frame plus the status the transport reported
// for the exchange.
type Message struct {
	Status int    `json:"status"`
	Recv   string `json:"recv"`
}

// JSON decodes Recv with http.DecodeJSON.
func (m Message) JSON() (any, error) {
	return http.DecodeJSON([]byte(m.Recv))
}
