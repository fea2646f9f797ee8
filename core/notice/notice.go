// Package notice queues one-shot banners for the learner in their session.
package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/irsalhamdi/learner-portal/api/web"
)

type Type string

const (
	Success Type = "success"
	Danger  Type = "danger"
)

// Notice is a banner shown once. Key groups notices of the same kind so a
// newer one replaces an older one still pending.
type Notice struct {
	ID   uuid.UUID `json:"id"`
	Key  string    `json:"key"`
	Type Type      `json:"type"`
	Text string    `json:"text"`
}

func New(key string, typ Type, text string) Notice {
	return Notice{ID: uuid.New(), Key: key, Type: typ, Text: text}
}

const sessionKey = "notices"

// Queue keeps pending notices in the learner's session.
type Queue struct {
	sess *scs.SessionManager
}

func NewQueue(sess *scs.SessionManager) *Queue {
	return &Queue{sess: sess}
}

// Add queues n, replacing a pending notice with the same key.
func (q *Queue) Add(ctx context.Context, n Notice) error {
	pending, err := q.pending(ctx, q.sess.GetBytes(ctx, sessionKey))
	if err != nil {
		return err
	}

	replaced := false
	for i := range pending {
		if pending[i].Key == n.Key {
			pending[i] = n
			replaced = true
		}
	}
	if !replaced {
		pending = append(pending, n)
	}

	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encoding notices: %w", err)
	}
	q.sess.Put(ctx, sessionKey, b)
	return nil
}

// Pop returns and clears every pending notice, oldest first.
func (q *Queue) Pop(ctx context.Context) ([]Notice, error) {
	return q.pending(ctx, q.sess.PopBytes(ctx, sessionKey))
}

func (q *Queue) pending(ctx context.Context, b []byte) ([]Notice, error) {
	if len(b) == 0 {
		return []Notice{}, nil
	}
	var out []Notice
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding notices: %w", err)
	}
	return out, nil
}

func HandleList(q *Queue) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		notices, err := q.Pop(ctx)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, notices, http.StatusOK)
	}
}
