package vision

import (
	"context"

	"waste-scan/api/internal/waste"
)

type fakeEngine struct{ name string }

func (f fakeEngine) Name() string     { return f.name }
func (f fakeEngine) GetModel() string { return f.name }

func (f fakeEngine) DetectLabels(context.Context, []byte, string) ([]waste.LabelScore, error) {
	return nil, nil
}

func (f fakeEngine) DetectItemProfile(context.Context, []byte, string) (waste.ItemProfile, error) {
	return waste.ItemProfile{}, nil
}
