package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

type mockS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveLead(t *testing.T) {
	s3c := &mockS3{}
	store := NewStore(s3c, "lead-archive", logging.Default())
	require.True(t, store.Enabled())

	lead := &leads.Lead{ID: "lead-1", Name: "Rohit", Phone: "9876543210"}
	require.NoError(t, store.ArchiveLead(context.Background(), lead))
	require.Len(t, s3c.inputs, 1)

	input := s3c.inputs[0]
	assert.Equal(t, "lead-archive", *input.Bucket)
	assert.Equal(t, "application/json", *input.ContentType)

	now := time.Now().UTC()
	wantKey := fmt.Sprintf("leads/v1/by-date/%d/%02d/%02d/lead-1.json", now.Year(), now.Month(), now.Day())
	assert.Equal(t, wantKey, *input.Key)

	raw, err := io.ReadAll(input.Body)
	require.NoError(t, err)
	var record LeadRecord
	require.NoError(t, json.Unmarshal(raw, &record))
	assert.Equal(t, "Rohit", record.Lead.Name)
	assert.False(t, record.ArchivedAt.IsZero())
}

func TestArchiveLead_DisabledIsNoOp(t *testing.T) {
	s3c := &mockS3{}
	store := NewStore(s3c, "", logging.Default())

	assert.False(t, store.Enabled())
	require.NoError(t, store.ArchiveLead(context.Background(), &leads.Lead{ID: "lead-1"}))
	assert.Empty(t, s3c.inputs)
}

func TestArchiveLead_PutFailureSurfaces(t *testing.T) {
	store := NewStore(&mockS3{err: errors.New("access denied")}, "lead-archive", logging.Default())

	err := store.ArchiveLead(context.Background(), &leads.Lead{ID: "lead-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 put")
}
