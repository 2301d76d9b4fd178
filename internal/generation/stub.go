package generation

import "context"

// StubService is a scriptable in-memory Service for tests and offline runs.
// Unset function fields fall back to deterministic defaults: canned solutions
// by problem prompt, pass-through transformations.
type StubService struct {
	// Solutions maps a prompt to the canned solution returned for it.
	Solutions map[string]string

	GenerateSolutionFn func(ctx context.Context, agentID, prompt, language string) (string, error)
	RefactorCodeFn     func(ctx context.Context, source, language, directive string) (string, error)
	FormatCodeFn       func(ctx context.Context, source, language string) (string, error)
	DocumentCodeFn     func(ctx context.Context, source, language string) (string, error)
	FixCodeFn          func(ctx context.Context, source, language, defect string) (string, error)
	OptimizeCodeFn     func(ctx context.Context, source, language string) (string, error)
}

var _ Service = (*StubService)(nil)

func (s *StubService) GenerateSolution(ctx context.Context, agentID, prompt, language string) (string, error) {
	if s.GenerateSolutionFn != nil {
		return s.GenerateSolutionFn(ctx, agentID, prompt, language)
	}
	return s.Solutions[prompt], nil
}

func (s *StubService) RefactorCode(ctx context.Context, source, language, directive string) (string, error) {
	if s.RefactorCodeFn != nil {
		return s.RefactorCodeFn(ctx, source, language, directive)
	}
	return source, nil
}

func (s *StubService) FormatCode(ctx context.Context, source, language string) (string, error) {
	if s.FormatCodeFn != nil {
		return s.FormatCodeFn(ctx, source, language)
	}
	return source, nil
}

func (s *StubService) DocumentCode(ctx context.Context, source, language string) (string, error) {
	if s.DocumentCodeFn != nil {
		return s.DocumentCodeFn(ctx, source, language)
	}
	return source, nil
}

func (s *StubService) FixCode(ctx context.Context, source, language, defect string) (string, error) {
	if s.FixCodeFn != nil {
		return s.FixCodeFn(ctx, source, language, defect)
	}
	return source, nil
}

func (s *StubService) OptimizeCode(ctx context.Context, source, language string) (string, error) {
	if s.OptimizeCodeFn != nil {
		return s.OptimizeCodeFn(ctx, source, language)
	}
	return source, nil
}
