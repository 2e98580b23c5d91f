package renderer

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPixelScheduler_CoversEveryPixelOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"sequential", 0},
		{"single worker", 1},
		{"fixed pool", 4},
		{"more workers than pixels", 64},
		{"auto", WorkersAuto},
		{"all", WorkersAll},
	}

	const width, height = 13, 7
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler, err := NewPixelScheduler(width, height, tt.workers)
			if err != nil {
				t.Fatalf("NewPixelScheduler failed: %v", err)
			}

			counts := make([]atomic.Int32, width*height)
			err = scheduler.Run(func(col, row int) {
				if col < 0 || col >= width || row < 0 || row >= height {
					t.Errorf("pixel (%d,%d) outside the grid", col, row)
					return
				}
				counts[row*width+col].Add(1)
			})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			for i := range counts {
				if n := counts[i].Load(); n != 1 {
					t.Errorf("pixel (%d,%d) rendered %d times", i%width, i/width, n)
				}
			}
			if scheduler.State() != StateComplete {
				t.Errorf("Expected state complete, got %s", scheduler.State())
			}
		})
	}
}

func TestPixelScheduler_SequentialOrder(t *testing.T) {
	scheduler, err := NewPixelScheduler(3, 2, 0)
	if err != nil {
		t.Fatalf("NewPixelScheduler failed: %v", err)
	}

	var order [][2]int
	if err := scheduler.Run(func(col, row int) { order = append(order, [2]int{col, row}) }); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(order) != len(want) {
		t.Fatalf("Expected %d pixels, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Step %d: expected %v, got %v", i, want[i], order[i])
		}
	}
}

func TestPixelScheduler_Lifecycle(t *testing.T) {
	scheduler, err := NewPixelScheduler(2, 2, 2)
	if err != nil {
		t.Fatalf("NewPixelScheduler failed: %v", err)
	}
	if scheduler.State() != StateIdle {
		t.Errorf("Expected idle, got %s", scheduler.State())
	}

	var during SchedulerState
	if err := scheduler.Run(func(col, row int) {
		if col == 0 && row == 0 {
			during = scheduler.State()
		}
	}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if during != StateRunning {
		t.Errorf("Expected running while rendering, got %s", during)
	}

	err = scheduler.Run(func(int, int) { t.Error("second run rendered a pixel") })
	if !errors.Is(err, ErrRenderInProgress) {
		t.Errorf("Expected ErrRenderInProgress on rerun, got %v", err)
	}
}

func TestNewPixelScheduler_Validation(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		workers       int
		wantErr       error
	}{
		{"zero width", 0, 5, 1, ErrInvalidResolution},
		{"negative height", 5, -1, 1, ErrInvalidResolution},
		{"unknown sentinel", 5, 5, -3, ErrInvalidWorkers},
		{"valid", 5, 5, 8, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPixelScheduler(tt.width, tt.height, tt.workers)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	cpus := runtime.NumCPU()

	tests := []struct {
		workers int
		want    int
	}{
		{0, 0},
		{3, 3},
		{WorkersAuto, max(1, cpus-reservedCPUs)},
		{WorkersAll, cpus},
	}

	for _, tt := range tests {
		got, err := resolveWorkers(tt.workers)
		if err != nil {
			t.Errorf("resolveWorkers(%d) failed: %v", tt.workers, err)
		}
		if got != tt.want {
			t.Errorf("resolveWorkers(%d) = %d, want %d", tt.workers, got, tt.want)
		}
	}
}

func TestSchedulerState_String(t *testing.T) {
	if StateIdle.String() != "idle" || StateRunning.String() != "running" || StateComplete.String() != "complete" {
		t.Error("Unexpected state names")
	}
	if SchedulerState(9).String() != "SchedulerState(9)" {
		t.Errorf("Unexpected unknown state name %q", SchedulerState(9).String())
	}
}
