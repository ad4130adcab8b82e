package handler

import (
	"testing"

	"github.com/ortelius/scec-catalog/model"
)

func TestCountDistinctSBOMs(t *testing.T) {
	tests := []struct {
		name string
		refs []artifactRef
		want int
	}{
		{
			name: "empty",
			refs: nil,
			want: 0,
		},
		{
			name: "documents never count",
			refs: []artifactRef{
				{ID: "artifact/1", ArtifactType: model.ArtifactTypeDocument},
				{ID: "artifact/2", ArtifactType: model.ArtifactTypeDocument},
			},
			want: 0,
		},
		{
			name: "mixed types count sboms only",
			refs: []artifactRef{
				{ID: "artifact/1", ArtifactType: model.ArtifactTypeSBOM},
				{ID: "artifact/2", ArtifactType: model.ArtifactTypeDocument},
				{ID: "artifact/3", ArtifactType: model.ArtifactTypeSBOM},
			},
			want: 2,
		},
		{
			name: "shared artifact counts once",
			refs: []artifactRef{
				{ID: "artifact/1", ArtifactType: model.ArtifactTypeSBOM},
				{ID: "artifact/1", ArtifactType: model.ArtifactTypeSBOM},
				{ID: "artifact/1", ArtifactType: model.ArtifactTypeSBOM},
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countDistinctSBOMs(tt.refs); got != tt.want {
				t.Errorf("countDistinctSBOMs = %d, want %d", got, tt.want)
			}
		})
	}
}
