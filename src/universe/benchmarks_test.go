package universe

import (
	"fmt"
	"testing"
)

var benchSizes = []int{64, 200}

func Benchmark_Tick(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%vx%v", size, size), func(b *testing.B) {
			u := New(size, size, DemoFill())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Tick()
			}
		})
	}
}

func Benchmark_Randomize(b *testing.B) {
	rng := &scriptedRand{values: []float64{0.3, 0.8, 0.1, 0.6}}
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%vx%v", size, size), func(b *testing.B) {
			u := New(size, size, DeadFill())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Randomize(rng)
			}
		})
	}
}

func Benchmark_Render(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%vx%v", size, size), func(b *testing.B) {
			u := New(size, size, DemoFill())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = u.Render()
			}
		})
	}
}
