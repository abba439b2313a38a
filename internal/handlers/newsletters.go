package handlers

import (
	"context"
	"net/http"

	"github.com/xxc-git/zero2prod/internal"
	"github.com/xxc-git/zero2prod/internal/newsletter"
)

// Publisher sends a newsletter issue to every confirmed subscriber.
type Publisher interface {
	Publish(ctx context.Context, issue newsletter.Issue) (*newsletter.DispatchReport, error)
}

// Newsletters serves POST /newsletters.
type Newsletters struct {
	dispatcher Publisher
}

// NewNewsletters creates the newsletter endpoint.
func NewNewsletters(dispatcher Publisher) *Newsletters {
	return &Newsletters{dispatcher: dispatcher}
}

func (h *Newsletters) Routes(r internal.Router) {
	r.POST("/newsletters", h.publish)
}

// publishRequest is the JSON body of POST /newsletters. Every field must be
// present; pointers tell a missing field from an empty one.
type publishRequest struct {
	Title   *string         `json:"title"`
	Content *publishContent `json:"content"`
}

type publishContent struct {
	Text *string `json:"text"`
	HTML *string `json:"html"`
}

func (p *publishRequest) issue() (newsletter.Issue, bool) {
	if p.Title == nil || p.Content == nil || p.Content.Text == nil || p.Content.HTML == nil {
		return newsletter.Issue{}, false
	}
	return newsletter.Issue{
		Title: *p.Title,
		Text:  *p.Content.Text,
		HTML:  *p.Content.HTML,
	}, true
}

func (h *Newsletters) publish(c internal.Context) error {
	var body publishRequest
	if err := c.BindJSON(&body); err != nil {
		return internal.ErrBadRequest("malformed newsletter body", internal.WithError(err))
	}
	issue, ok := body.issue()
	if !ok {
		return internal.ErrBadRequest("newsletter body needs title, content.text and content.html")
	}

	report, err := h.dispatcher.Publish(context.WithoutCancel(c), issue)
	if err != nil {
		return err
	}

	c.LogInfo("newsletter published",
		"delivered", report.Delivered,
		"skipped", len(report.Skipped),
	)
	return c.NoContent(http.StatusOK)
}
