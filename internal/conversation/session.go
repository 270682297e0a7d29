package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zhubert/agentdeck/internal/attachment"
	pErrors "github.com/zhubert/agentdeck/internal/errors"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/response"
)

// Greeting is the assistant turn a new chat opens with.
const Greeting = "Hello! I'm Prometheus. How can I help you today?"

var (
	// ErrEmpty is returned by Begin when there is no text and no file.
	ErrEmpty = errors.New("nothing to send")
	// ErrInFlight is returned by Begin while a previous send is pending.
	ErrInFlight = errors.New("a message is already being sent")
)

// Sender is the part of the backend gateway the session needs.
type Sender interface {
	SendMessage(ctx context.Context, text string, files []attachment.Attachment) (*response.AgentResponse, error)
}

// Request is an admitted send, waiting for Exchange.
type Request struct {
	Text        string
	Attachments []attachment.Attachment
}

// Reply is the outcome of one Exchange.
type Reply struct {
	Response *response.AgentResponse
	Err      error
	Elapsed  time.Duration
}

// Options configures a Session.
type Options struct {
	// Greeting seeds the transcript with the greeting turn.
	Greeting bool
	// BaseURL is named in network error hints.
	BaseURL string
}

// Session couples a transcript with a backend and allows one send at a
// time. Begin and Complete must be called from the same goroutine;
// Exchange may run anywhere.
type Session struct {
	store   *Store
	sender  Sender
	baseURL string
	pending bool
}

// NewSession creates a session sending through sender.
func NewSession(sender Sender, opts Options) *Session {
	s := &Session{
		store:   NewStore(),
		sender:  sender,
		baseURL: opts.BaseURL,
	}
	if opts.Greeting {
		s.store.Append(Turn{Role: RoleAssistant, Content: Greeting})
	}
	return s
}

// Store returns the session's transcript.
func (s *Session) Store() *Store {
	return s.store
}

// Pending reports whether a send is waiting for its reply.
func (s *Session) Pending() bool {
	return s.pending
}

// Begin admits a send: it appends the user turn and marks the session
// pending. Input with neither text nor files is rejected with ErrEmpty, and
// a send while another is pending with ErrInFlight; neither touches the
// transcript.
func (s *Session) Begin(text string, atts []attachment.Attachment) (Request, error) {
	if s.pending {
		return Request{}, ErrInFlight
	}
	if strings.TrimSpace(text) == "" && len(atts) == 0 {
		return Request{}, ErrEmpty
	}

	turn := s.store.Append(Turn{Role: RoleUser, Content: text, Attachments: atts})
	s.pending = true
	return Request{Text: text, Attachments: turn.Attachments}, nil
}

// Exchange performs the backend call for req. It does not touch the
// session state.
func (s *Session) Exchange(ctx context.Context, req Request) Reply {
	start := time.Now()
	r, err := s.sender.SendMessage(ctx, req.Text, req.Attachments)
	return Reply{Response: r, Err: err, Elapsed: time.Since(start)}
}

// Complete appends the assistant turn for reply and clears the pending
// flag. A failed reply becomes an error turn.
func (s *Session) Complete(reply Reply) Turn {
	s.pending = false

	if reply.Err != nil {
		logger.WithComponent("Conversation").Error("send failed", "error", reply.Err, "kind", pErrors.GetKind(reply.Err))
		return s.store.Append(Turn{
			Role:    RoleAssistant,
			Content: FormatError(reply.Err, s.baseURL),
			Err:     reply.Err,
		})
	}

	logger.WithComponent("Conversation").Info("reply received", "mode", modeOf(reply.Response), "elapsed", reply.Elapsed)
	return s.store.Append(Turn{
		Role:    RoleAssistant,
		Content: response.Preview(reply.Response),
		Raw:     reply.Response,
	})
}

// Send runs Begin, Exchange and Complete in sequence. The returned error is
// only from Begin; backend failures come back as an error turn.
func (s *Session) Send(ctx context.Context, text string, atts []attachment.Attachment) (Turn, error) {
	req, err := s.Begin(text, atts)
	if err != nil {
		return Turn{}, err
	}
	return s.Complete(s.Exchange(ctx, req)), nil
}

func modeOf(r *response.AgentResponse) string {
	if r == nil {
		return ""
	}
	return r.Mode.String()
}

// FormatError renders a failed send as the text of an error turn, with
// troubleshooting hints picked by the kind of failure.
func FormatError(err error, baseURL string) string {
	message := pErrors.Message(err)
	if message == "" {
		message = "Failed to send message"
	}

	var hints string
	switch {
	case pErrors.Is(err, pErrors.KindNetwork):
		hints = "\n\nTroubleshooting:\n" +
			"1. Make sure the backend server is running\n" +
			"2. Check if CORS is enabled in the backend\n" +
			"3. Verify the API URL is correct: " + baseURL
	case pErrors.StatusOf(err) == 500:
		hints = "\n\nThis is a backend error. The backend may have a response model mismatch.\n" +
			"Check the backend logs for more details."
	case pErrors.StatusOf(err) == 422:
		hints = "\n\nValidation error. The request format may be incorrect."
	}

	return "Error: " + message + hints + "\n\nSee the debug log for technical details."
}
