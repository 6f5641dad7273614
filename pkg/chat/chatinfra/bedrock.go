// Package chatinfra holds the LLM provider implementations for chat.
package chatinfra

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/joopert/translate-app/pkg/chat"
)

const maxResponseTokens = 1024

// BedrockProvider relays conversations to an AWS Bedrock model via the
// Converse API.
type BedrockProvider struct {
	client *bedrockruntime.Client
	model  string
}

// NewBedrockProvider builds the Bedrock chat provider.
func NewBedrockProvider(awsCfg aws.Config, model string) *BedrockProvider {
	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  model,
	}
}

func (p *BedrockProvider) Complete(ctx context.Context, instructions string, history []chat.Message, userMessage string) (string, error) {
	messages := make([]types.Message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, types.Message{
			Role:    bedrockRole(msg.Role),
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
		})
	}
	messages = append(messages, types.Message{
		Role:    types.ConversationRoleUser,
		Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: userMessage}},
	})

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(p.model),
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens: aws.Int32(maxResponseTokens),
		},
	}
	if instructions != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: instructions},
		}
	}

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return "", chat.ErrRegistry.NewWithCause(chat.CodeProviderError, err)
	}

	return extractConverseText(output), nil
}

func bedrockRole(role chat.Role) types.ConversationRole {
	if role == chat.RoleAssistant {
		return types.ConversationRoleAssistant
	}
	return types.ConversationRoleUser
}

// extractConverseText concatenates the text blocks of the model reply,
// skipping tool-use and other non-text content.
func extractConverseText(output *bedrockruntime.ConverseOutput) string {
	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, block := range message.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	return sb.String()
}

var _ chat.Provider = (*BedrockProvider)(nil)
