package fingerprint

import "context"

type FingerprintService interface {
	Enroll(ctx context.Context, req EnrollRequest) (EnrollmentResponse, error)
	Check(ctx context.Context, employeeID string) (CheckResponse, error)
	Templates(ctx context.Context) (TemplatesResponse, error)
	Remove(ctx context.Context, employeeID string) error
	Pending(ctx context.Context) ([]PendingUserResponse, error)
	Confirm(ctx context.Context, req ConfirmRequest) (ConfirmResponse, error)
	// UpdateTemplate is the terminal's unconditional upsert.
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (EnrollmentResponse, error)
}
