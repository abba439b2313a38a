package handlers

import (
	"context"
	"net/http"

	"github.com/xxc-git/zero2prod/internal"
)

// Subscriber is the part of the subscription workflow the endpoints call.
type Subscriber interface {
	Subscribe(ctx context.Context, name, email string) error
	Confirm(ctx context.Context, token string) error
}

// Subscriptions serves POST /subscriptions and GET /subscriptions/confirm.
type Subscriptions struct {
	workflow Subscriber
	token    internal.Extractor
}

// NewSubscriptions creates the subscription endpoints.
func NewSubscriptions(workflow Subscriber) *Subscriptions {
	return &Subscriptions{
		workflow: workflow,
		token:    internal.NewExtractor(internal.FromQuery("subscription_token")),
	}
}

func (h *Subscriptions) Routes(r internal.Router) {
	r.POST("/subscriptions", h.subscribe)
	r.GET("/subscriptions/confirm", h.confirm)
}

// subscribe expects a form-encoded body with name and email fields.
func (h *Subscriptions) subscribe(c internal.Context) error {
	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return internal.ErrBadRequest("malformed form body", internal.WithError(err))
	}

	name, ok := formField(req, "name")
	if !ok {
		return internal.ErrBadRequest("missing name")
	}
	email, ok := formField(req, "email")
	if !ok {
		return internal.ErrBadRequest("missing email")
	}

	if err := h.workflow.Subscribe(context.WithoutCancel(c), name, email); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *Subscriptions) confirm(c internal.Context) error {
	token, ok := h.token.Extract(c)
	if !ok {
		return internal.ErrBadRequest("missing subscription_token")
	}

	if err := h.workflow.Confirm(context.WithoutCancel(c), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// formField reports whether key was sent in the body at all; an empty value
// is present and left for the workflow to reject.
func formField(r *http.Request, key string) (string, bool) {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
