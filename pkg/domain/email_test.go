package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderEmail(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		citizen  CitizenID
		want     string
	}{
		{name: "simple", fullName: "Ana Gomez", citizen: "123", want: "ana.gomez.123@carpetacolombia.co"},
		{name: "collapses whitespace", fullName: "  Ana \t Maria  Gomez ", citizen: "1234567", want: "ana.maria.gomez.1234567@carpetacolombia.co"},
		{name: "strips accents and symbols", fullName: "José Núñez-Ruiz", citizen: "99", want: "jos.nezruiz.99@carpetacolombia.co"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderEmail(tt.fullName, tt.citizen))
		})
	}
}

func TestFolderEmailIsDeterministic(t *testing.T) {
	assert.Equal(t, FolderEmail("Ana Gomez", "123"), FolderEmail("Ana Gomez", "123"))
}
