package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"petshop-crm/internal/ports/textgen"
)

type fakeModels struct {
	gotModel  string
	gotConfig *genai.GenerateContentConfig
	gotPrompt string

	reply string
	err   error
	block bool
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func TestComplete_BuildsRequest(t *testing.T) {
	fake := &fakeModels{reply: `{"sku":"X"}`}
	c := newWithGenerator(fake, Config{})

	out, err := c.Complete(context.Background(), textgen.Request{System: "sys", Prompt: "Ração", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"sku":"X"}`, out)

	assert.Equal(t, DefaultModel, fake.gotModel)
	assert.Equal(t, "Ração", fake.gotPrompt)
	require.NotNil(t, fake.gotConfig)
	assert.Equal(t, "application/json", fake.gotConfig.ResponseMIMEType)
	require.NotNil(t, fake.gotConfig.SystemInstruction)
	require.NotNil(t, fake.gotConfig.Temperature)
}

func TestComplete_ErrorMapping(t *testing.T) {
	c := newWithGenerator(&fakeModels{err: errors.New("429 quota")}, Config{})
	_, err := c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrRemoteService)

	c = newWithGenerator(&fakeModels{reply: "  "}, Config{})
	_, err = c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrRemoteFailure)

	c = newWithGenerator(&fakeModels{block: true}, Config{Timeout: 20 * time.Millisecond})
	_, err = c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrTimeout)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, textgen.ErrNotConfigured)
}
