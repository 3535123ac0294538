package tokenizer

import (
	"context"
	"errors"

	"vocabsub/internal/vocab"
)

// Token is one tagged unit of the submitted text, in input order.
type Token struct {
	Text      string    `json:"text"`
	Lemma     string    `json:"lemma"`
	POS       vocab.POS `json:"pos"`
	IsStop    bool      `json:"is_stop"`
	IsPunct   bool      `json:"is_punct"`
	EntityIOB string    `json:"entity_iob"`
}

// InEntity reports whether the token is part of a named entity.
func (t Token) InEntity() bool {
	return t.EntityIOB == "B" || t.EntityIOB == "I"
}

// Tagger is a tagging model. Load is called once before any Tag call and
// Close once at shutdown. Tag calls never overlap. Close may run while a Load
// that overran its deadline is still blocked and must unblock it.
type Tagger interface {
	Load(ctx context.Context) error
	Tag(ctx context.Context, text string) ([]Token, error)
	Close() error
}

var (
	// ErrModelLoad reports that the tagger failed its startup handshake.
	ErrModelLoad = errors.New("tokenizer: model load failed")
	// ErrWorkerClosed is returned by Submit after Shutdown or a failed Start.
	ErrWorkerClosed = errors.New("tokenizer: worker closed")
)
