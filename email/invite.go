package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const inviteEmailTimeout = 5 * time.Second

type InviteEmail struct {
	Subject string
	Body    string
}

type InviteDetails struct {
	RecipientName string
	InviterName   string
	// Role is "player" or "coach".
	Role      string
	AcceptURL string
	ExpiresAt time.Time
}

// InviteURL joins the invite base URL and the invite code.
func InviteURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(code)
}

func BuildInviteEmail(details InviteDetails) InviteEmail {
	inviter := strings.TrimSpace(details.InviterName)
	if inviter == "" {
		inviter = "Your team"
	}
	role := strings.TrimSpace(details.Role)
	if role == "" {
		role = "player"
	}

	var b strings.Builder
	if name := strings.TrimSpace(details.RecipientName); name != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", name)
	} else {
		b.WriteString("Hi,\n\n")
	}
	fmt.Fprintf(&b, "%s added you to their roster as a %s.\n", inviter, role)
	b.WriteString("Accept the invite to manage your own profile and team assignments:\n\n")
	fmt.Fprintf(&b, "%s\n\n", details.AcceptURL)
	if !details.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "This invite expires on %s.\n", details.ExpiresAt.UTC().Format("Monday, Jan 2, 2006 at 15:04 MST"))
	}

	return InviteEmail{
		Subject: fmt.Sprintf("%s invited you to join their roster", inviter),
		Body:    b.String(),
	}
}

// SendInviteEmail sends an invite email asynchronously. Failures are only
// logged; the invite itself is already stored.
func SendInviteEmail(ctx context.Context, client EmailSender, recipient string, message InviteEmail, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || message.Subject == "" || message.Body == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, inviteEmailTimeout)
		defer cancel()
		if err := client.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send invite email")
			}
			return
		}
		if logger != nil {
			logger.Info().Str("recipient", recipient).Msg("Invite email sent")
		}
	}()
}
