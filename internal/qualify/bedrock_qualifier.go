package qualify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/impyreal/realty-ai-platform/internal/leads"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockQualifier classifies leads with an LLM on AWS Bedrock. It is the
// networked replacement for the rule table; the intake flow is unchanged
// when it is swapped in. Any transport or parse fault flows back to the
// dispatcher's error sink, so a Bedrock outage leaves leads unqualified but
// never blocks submission.
type BedrockQualifier struct {
	api     bedrockConverseAPI
	modelID string
}

// NewBedrockQualifier wraps the provided Converse client.
func NewBedrockQualifier(api bedrockConverseAPI, modelID string) *BedrockQualifier {
	if api == nil {
		panic("qualify: bedrock converse client cannot be nil")
	}
	if strings.TrimSpace(modelID) == "" {
		panic("qualify: bedrock model id cannot be empty")
	}
	return &BedrockQualifier{api: api, modelID: modelID}
}

func (q *BedrockQualifier) Name() string { return "bedrock" }

const bedrockSystemPrompt = `You score real-estate sales leads. Reply with a
single JSON object {"intent_level":"hot"|"warm"|"cold","notes":"<one
sentence for the sales team>"} and nothing else. Hot means a high-budget
investor worth a follow-up within 24 hours; cold means low budget or
browsing intent; everything else is warm.`

// Qualify asks the model for a verdict and validates the response shape.
func (q *BedrockQualifier) Qualify(ctx context.Context, lead *leads.Lead) (Result, error) {
	if lead == nil {
		return Result{}, errors.New("qualify: lead is nil")
	}

	payload, err := json.Marshal(map[string]string{
		"budget":       lead.Budget,
		"purpose":      lead.Purpose,
		"bhk":          lead.BHK,
		"location":     lead.LocationPref,
		"project":      lead.ProjectName,
		"source":       lead.Source,
		"message":      lead.Message,
		"submitted_at": lead.CreatedAt.Format("2006-01-02"),
	})
	if err != nil {
		return Result{}, fmt.Errorf("qualify: encode lead: %w", err)
	}

	out, err := q.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(q.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: bedrockSystemPrompt},
		},
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: string(payload)},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(256),
			Temperature: aws.Float32(0),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("qualify: bedrock converse: %w", err)
	}

	text, err := extractOutputText(out)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal([]byte(extractJSONObject(text)), &result); err != nil {
		return Result{}, fmt.Errorf("qualify: bedrock returned unparseable verdict: %w", err)
	}
	if !result.IntentLevel.Valid() {
		return Result{}, fmt.Errorf("qualify: bedrock returned unknown intent %q", result.IntentLevel)
	}
	return result, nil
}

func extractOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("qualify: bedrock response missing message output")
	}
	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("qualify: bedrock response contained no text")
	}
	return sb.String(), nil
}

// extractJSONObject trims any prose the model wraps around the JSON body.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
