package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func messageFrom(from string) *gmail.Message {
	return &gmail.Message{Payload: &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{{Name: "Subject", Value: "Application"}, {Name: "From", Value: from}},
	}}
}

func TestExtractSenderName(t *testing.T) {
	tests := []struct {
		name string
		msg  *gmail.Message
		want string
	}{
		{"display name", messageFrom("Jane Smith <jane@example.com>"), "Jane_Smith"},
		{"quoted display name", messageFrom(`"O'Brien, Pat" <pat@example.com>`), "O'Brien,_Pat"},
		{"bare address", messageFrom("max.mustermann@example.com"), "max.mustermann"},
		{"angle address only", messageFrom("<anon@example.com>"), "anon"},
		{"unparsable", messageFrom("postmaster"), "Unknown"},
		{"no from header", &gmail.Message{Payload: &gmail.MessagePart{}}, "Unknown"},
		{"nil payload", &gmail.Message{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSenderName(tt.msg))
		})
	}
}

func TestAttachmentFileName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"My Resume.pdf", "Jane_CV.pdf"},
		{"cv_final.docx", "Jane_CV.docx"},
		{"Cover Letter.pdf", "Jane_CoverLetter.pdf"},
		{"portfolio.txt", "Jane_portfolio.txt"},
		{"../../secret.txt", "Jane_secret.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, attachmentFileName("Jane", tt.file))
		})
	}
}

func TestAttachmentPartsWalksNestedParts(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{MimeType: "multipart/alternative", Parts: []*gmail.MessagePart{
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "aGk="}},
			}},
			{Filename: "cv.pdf", Body: &gmail.MessagePartBody{AttachmentId: "a1"}},
			{Filename: "inline.png", Body: &gmail.MessagePartBody{}},
			{MimeType: "multipart/mixed", Parts: []*gmail.MessagePart{
				{Filename: "letter.docx", Body: &gmail.MessagePartBody{AttachmentId: "a2"}},
			}},
		},
	}

	parts := attachmentParts(payload)

	var names []string
	for _, p := range parts {
		names = append(names, p.Filename)
	}
	assert.Equal(t, []string{"cv.pdf", "letter.docx"}, names)
	assert.Nil(t, attachmentParts(nil))
}

func TestNewGmailHandlerMissingCredentials(t *testing.T) {
	_, err := NewGmailHandlerWithOptions(context.Background(), t.TempDir(), GmailOptions{
		CredentialsPath: filepath.Join(t.TempDir(), "credentials.json"),
	})

	assert.ErrorContains(t, err, "unable to read credentials file")
}
