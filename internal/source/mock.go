package source

import (
	"context"
	"fmt"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// MockReader is a test double for the Reader interface. Each read returns a
// private copy of the stored table.
type MockReader struct {
	ConnectErr error
	Tables     map[string]*dataset.Table
	ReadErr    map[string]error

	Connected bool
	Closed    bool
	Reads     []string
}

func (m *MockReader) Connect(_ context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.Connected = true
	return nil
}

func (m *MockReader) ReadTable(_ context.Context, name string) (*dataset.Table, error) {
	m.Reads = append(m.Reads, name)
	if err, ok := m.ReadErr[name]; ok {
		return nil, err
	}
	if t, ok := m.Tables[name]; ok {
		return t.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
}

func (m *MockReader) Close() error {
	m.Closed = true
	return nil
}
