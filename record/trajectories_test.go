package record

import (
	"testing"

	"hgf/attrs"
)

func sampleNodes() []attrs.Node {
	return []attrs.Node{
		{Mean: 1, Precision: 2, Surprise: 0.5},
		{Mean: 3, Precision: 4, Surprise: 1.5},
	}
}

func TestTrackThenAtRoundTrips(t *testing.T) {
	traj := NewTrajectories([]int{0, 1}, 3)
	if err := traj.Track(sampleNodes()); err != nil {
		t.Fatalf("Track: %v", err)
	}
	mean, precision, surprise, err := traj.At(0, 1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if mean != 3 || precision != 4 || surprise != 1.5 {
		t.Errorf("At(0,1) = (%v,%v,%v), want (3,4,1.5)", mean, precision, surprise)
	}
	if traj.Len() != 1 {
		t.Errorf("Len() = %d, want 1", traj.Len())
	}
}

func TestTrackErrorsWhenFull(t *testing.T) {
	traj := NewTrajectories([]int{0, 1}, 1)
	if err := traj.Track(sampleNodes()); err != nil {
		t.Fatalf("first Track: %v", err)
	}
	if err := traj.Track(sampleNodes()); err == nil {
		t.Fatal("Track should error once the preallocated capacity is exhausted")
	}
}

func TestAtErrorsForUntrackedNodeOrOutOfRangeStep(t *testing.T) {
	traj := NewTrajectories([]int{0, 1}, 2)
	traj.Track(sampleNodes())

	if _, _, _, err := traj.At(0, 99); err == nil {
		t.Error("At should error for a node index that was never registered as tracked")
	}
	if _, _, _, err := traj.At(5, 0); err == nil {
		t.Error("At should error for a step beyond what has been written")
	}
}

func TestMeanMatrixShapeMatchesWrittenSteps(t *testing.T) {
	traj := NewTrajectories([]int{0, 1}, 5)
	traj.Track(sampleNodes())
	traj.Track(sampleNodes())

	r, c := traj.Mean().Dims()
	if r != 2 || c != 2 {
		t.Errorf("Mean() dims = (%d,%d), want (2,2) — should reflect written rows, not full capacity", r, c)
	}
}
