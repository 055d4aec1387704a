package notification

import (
	"context"
	"fmt"

	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/infrastructure/mail"
)

// ConfirmationSubject is the subject of the sign-up confirmation e-mail
const ConfirmationSubject = "Confirm your e-mail"

// ConfirmationMailer sends the confirmation key to a newly registered user
type ConfirmationMailer struct {
	dispatcher *MailDispatcher
}

// NewConfirmationMailer creates a new ConfirmationMailer
func NewConfirmationMailer(dispatcher *MailDispatcher) *ConfirmationMailer {
	return &ConfirmationMailer{dispatcher: dispatcher}
}

// SendConfirmation dispatches the confirmation key
func (m *ConfirmationMailer) SendConfirmation(ctx context.Context, user *identity.User, token *identity.ConfirmEmailToken) error {
	return m.dispatcher.Dispatch(ctx, mail.Message{
		To:      []string{user.Email},
		Subject: ConfirmationSubject,
		Text: fmt.Sprintf("Hello %s,\n\nyour confirmation token is %s\n\nSend it with your e-mail to /api/v1/user/register/confirm to activate the account.",
			user.FirstName, token.Key),
	})
}
