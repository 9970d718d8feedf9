package pipeline

// Pipeline runs a fixed sequence of processing stages over a Context.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from stages, run in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run calls every stage in order, continuing even if an earlier stage
// recorded an error; each stage decides for itself whether to skip
// given the errors already recorded in the Context.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// Standard returns the canonical lex/parse -> type-check -> sandbox ->
// evaluate pipeline.
func Standard() *Pipeline {
	return New(
		ParseProcessor{},
		TypeCheckProcessor{},
		SandboxProcessor{},
		EvalProcessor{},
	)
}
