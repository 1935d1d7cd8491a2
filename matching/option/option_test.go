package option

import "testing"

func TestNewOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{name: "default", want: DefaultThreshold},
		{name: "explicit", opts: []Option{WithThreshold(0.8)}, want: 0.8},
		{name: "zero is kept", opts: []Option{WithThreshold(0)}, want: 0},
		{name: "negative is kept", opts: []Option{WithThreshold(-1)}, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewOptions(tt.opts...).Threshold; got != tt.want {
				t.Fatalf("threshold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptions_Options(t *testing.T) {
	tests := []struct {
		name      string
		config    Options
		threshold float64
		substring bool
	}{
		{name: "unset uses default", config: Options{}, threshold: DefaultThreshold},
		{name: "configured", config: Options{Threshold: 0.75, SubstringOnly: true}, threshold: 0.75, substring: true},
		{name: "accept any", config: Options{Threshold: -1}, threshold: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewOptions(tt.config.Options()...)
			if got.Threshold != tt.threshold || got.SubstringOnly != tt.substring {
				t.Fatalf("got %+v", got)
			}
		})
	}
}
