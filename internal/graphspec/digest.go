package graphspec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// DomainGraph prefixes graph digests. The version suffix allows the
// encoding to change without colliding with old digests.
const DomainGraph = "nfagrep/graph/v1"

// digestForm is the hashed shape of a graph. Name and description are
// excluded: two files describing the same machine share a digest.
type digestForm struct {
	States      []string           `json:"states"`
	Initial     string             `json:"initial"`
	Accepting   []string           `json:"accepting"`
	Transitions []digestTransition `json:"transitions"`
}

type digestTransition struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Char    string `json:"char,omitempty"`
	Class   string `json:"class,omitempty"`
	Epsilon bool   `json:"epsilon,omitempty"`
	Unshift bool   `json:"unshift,omitempty"`
}

// Digest returns a content hash of the graph structure.
// Format: hex(SHA256(domain + 0x00 + json)), with all strings NFC
// normalized. State and transition order are significant.
func (g *Graph) Digest() (string, error) {
	form := digestForm{
		States:      nfcAll(g.States),
		Initial:     norm.NFC.String(g.Initial),
		Accepting:   nfcAll(g.Accepting),
		Transitions: make([]digestTransition, len(g.Transitions)),
	}
	for i, t := range g.Transitions {
		form.Transitions[i] = digestTransition{
			From:    norm.NFC.String(t.From),
			To:      norm.NFC.String(t.To),
			Char:    norm.NFC.String(t.Char),
			Class:   norm.NFC.String(t.Class),
			Epsilon: t.Epsilon,
			Unshift: t.Unshift,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(form); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainGraph))
	h.Write([]byte{0x00})
	h.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func nfcAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = norm.NFC.String(s)
	}
	return out
}
