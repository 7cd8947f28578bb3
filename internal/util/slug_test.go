package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pratos Especiais", "pratos-especiais"},
		{"Água de Coco", "agua-de-coco"},
		{"Pão de Queijo!", "pao-de-queijo"},
		{"  Lanches  ", "lanches"},
		{"Café -- da -- Manhã", "cafe-da-manha"},
		{"", ""},
		{"123 Bebidas", "123-bebidas"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
