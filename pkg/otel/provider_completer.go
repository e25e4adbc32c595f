package otel

import (
	"context"
	"iter"
	"time"

	"github.com/scansoal/scansoal/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.38.0/genaiconv"
)

type Completer interface {
	Observable
	provider.Completer
}

type observableCompleter struct {
	model    string
	provider string

	completer provider.Completer

	tokenUsageMetric        genaiconv.ClientTokenUsage
	operationDurationMetric genaiconv.ClientOperationDuration
}

func NewCompleter(provider, model string, p provider.Completer) Completer {
	meter := otel.Meter(instrumentationName)

	tokenUsageMetric, _ := genaiconv.NewClientTokenUsage(meter)
	operationDurationMetric, _ := genaiconv.NewClientOperationDuration(meter)

	return &observableCompleter{
		completer: p,

		model:    model,
		provider: provider,

		tokenUsageMetric:        tokenUsageMetric,
		operationDurationMetric: operationDurationMetric,
	}
}

func (p *observableCompleter) otelSetup() {
}

func (p *observableCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		ctx, span := otel.Tracer(instrumentationName).Start(ctx, "chat "+p.model)
		defer span.End()

		span.SetAttributes(
			attribute.String("gen_ai.provider.name", p.provider),
			attribute.String("gen_ai.request.model", p.model),
			attribute.Int("gen_ai.request.messages", len(messages)),
		)

		if options != nil {
			if options.Temperature != nil {
				span.SetAttributes(attribute.Float64("gen_ai.request.temperature", float64(*options.Temperature)))
			}

			if options.MaxTokens != nil {
				span.SetAttributes(attribute.Int("gen_ai.request.max_tokens", *options.MaxTokens))
			}

			if options.Schema != nil {
				span.SetAttributes(attribute.String("gen_ai.output.type", "json"))
			}
		}

		timestamp := time.Now()

		var result provider.CompletionAccumulator
		var count int

		for completion, err := range p.completer.Complete(ctx, messages, options) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				yield(nil, err)
				return
			}

			if completion != nil {
				result.Add(*completion)
				count++
			}

			if !yield(completion, nil) {
				return
			}
		}

		if count == 0 {
			return
		}

		p.record(ctx, time.Since(timestamp), result.Result())
	}
}

func (p *observableCompleter) record(ctx context.Context, duration time.Duration, completion *provider.Completion) {
	providerName := genaiconv.ProviderNameAttr(p.provider)
	responseModel := p.model

	if completion.Model != "" {
		responseModel = completion.Model
	}

	attrs := KeyValues([]KeyValue{
		p.operationDurationMetric.AttrRequestModel(p.model),
		p.operationDurationMetric.AttrResponseModel(responseModel),
	}, EndUserAttrs(ctx))

	p.operationDurationMetric.Record(ctx, duration.Seconds(), genaiconv.OperationNameChat, providerName, attrs...)

	if completion.Reason != "" {
		attrs = append(attrs, attribute.String("gen_ai.response.finish_reason", string(completion.Reason)))
	}

	usage := completion.Usage

	if usage == nil {
		return
	}

	if usage.InputTokens > 0 {
		p.tokenUsageMetric.Record(ctx, int64(usage.InputTokens), genaiconv.OperationNameChat, providerName, genaiconv.TokenTypeInput, attrs...)
	}

	if usage.OutputTokens > 0 {
		p.tokenUsageMetric.Record(ctx, int64(usage.OutputTokens), genaiconv.OperationNameChat, providerName, genaiconv.TokenTypeOutput, attrs...)
	}
}
