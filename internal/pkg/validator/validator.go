package validator

import (
	"errors"
	"strings"
)

var ErrEmptyContent = errors.New("content cannot be empty")

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateContent returns the trimmed content or ErrEmptyContent.
func (v *Validator) ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}

	return trimmed, nil
}

// ValidatePeer checks that a conversation is opened with someone else.
func (v *Validator) ValidatePeer(currentUserID, peerID string) error {
	if strings.TrimSpace(peerID) == "" {
		return errors.New("peer id is required")
	}

	if peerID == currentUserID {
		return errors.New("cannot open a conversation with yourself")
	}

	return nil
}
