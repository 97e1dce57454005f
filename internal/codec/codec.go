// Package codec implements the process's sole I/O contract: read one JSON
// object from stdin, write exactly one JSON object to stdout, then the
// process exits. No other package may touch stdin/stdout.
package codec

import (
	"encoding/json"
	"io"
)

// Request is the decoded shape of the single stdin document.
type Request struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Decode reads and parses the one JSON request object from r.
func Decode(r io.Reader) (*Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}
	return &req, nil
}

// Encode writes v to w as the single canonical JSON response.
func Encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
