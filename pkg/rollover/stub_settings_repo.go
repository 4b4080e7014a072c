package rollover

import "context"

type StubSettingsRepo struct {
	data map[string]string

	GetErr error
	SetErr error
}

func NewStubSettingsRepo() *StubSettingsRepo {
	return &StubSettingsRepo{data: map[string]string{}}
}

func (s *StubSettingsRepo) Get(ctx context.Context, name string) (string, error) {
	if s.GetErr != nil {
		return "", s.GetErr
	}
	return s.data[name], nil
}

func (s *StubSettingsRepo) Set(ctx context.Context, name, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.data[name] = value
	return nil
}

func (s *StubSettingsRepo) Clear(ctx context.Context) error {
	s.data = map[string]string{}
	return nil
}

func (s *StubSettingsRepo) Cleanup() {
	s.data = map[string]string{}
	s.GetErr = nil
	s.SetErr = nil
}
