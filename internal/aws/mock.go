package aws

import "context"

// MockClient is a test double for the Client interface.
type MockClient struct {
	CallerIdentity *CallerIdentity
	IdentityErr    error
	PutErr         error

	// Put records every stored object in call order.
	Put []Object
}

// NewMockClient creates a new MockClient with a fixed test identity.
func NewMockClient() *MockClient {
	return &MockClient{
		CallerIdentity: &CallerIdentity{
			Account: "123456789012",
			ARN:     "arn:aws:iam::123456789012:user/reports",
			UserID:  "AIDA12345",
		},
	}
}

func (m *MockClient) Identity(_ context.Context) (*CallerIdentity, error) {
	return m.CallerIdentity, m.IdentityErr
}

func (m *MockClient) PutFile(_ context.Context, obj Object) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Put = append(m.Put, obj)
	return nil
}
