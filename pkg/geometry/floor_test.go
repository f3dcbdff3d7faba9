package geometry

import (
	"testing"

	"github.com/df07/ascii-raytracer/pkg/core"
)

func newUnitFloor() *Floor {
	// Floor in the y=0 plane spanning [-5, 5] with unit checker cells
	return NewFloor(core.NewVec3(0, 0, 0), 10, 1)
}

func TestFloor_Test_ParallelAndUpwardRaysMiss(t *testing.T) {
	floor := newUnitFloor()

	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"parallel along x", core.NewVec3(1, 0, 0)},
		{"parallel along z", core.NewVec3(0, 0, -1)},
		{"upward", core.NewVec3(0, 1, 0)},
		{"barely downward", core.NewVec3(1, -5e-5, 0).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 1, 0), tt.direction)
			result := floor.Test(ray)
			if result.Hit {
				t.Error("Expected miss")
			}
			if result.Ray != ray {
				t.Errorf("Ray should be untouched, got %+v", result.Ray)
			}
		})
	}
}

func TestFloor_Test_Checkerboard(t *testing.T) {
	floor := newUnitFloor()

	tests := []struct {
		name   string
		x, z   float64
		marked bool
	}{
		{"origin cell", 0.5, 0.5, false},
		{"next cell along x", 1.5, 0.5, true},
		{"next cell along z", 0.5, 1.5, true},
		{"diagonal cell", 1.5, 1.5, false},
		{"negative x uses floored index", -0.5, 0.5, true},
		{"negative x and z", -0.5, -0.5, false},
		{"two cells left", -1.5, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(tt.x, 1, tt.z), core.NewVec3(0, -1, 0))
			result := floor.Test(ray)

			if result.Hit != tt.marked {
				t.Errorf("Expected marked=%t, got %t", tt.marked, result.Hit)
			}
			// Hit or not, an in-bounds ray lands on the floor and bounces
			if !vecNear(result.Ray.Origin, core.NewVec3(tt.x, 0, tt.z), tolerance) {
				t.Errorf("Expected origin on floor, got %v", result.Ray.Origin)
			}
			if !vecNear(result.Ray.Direction, core.NewVec3(0, 1, 0), tolerance) {
				t.Errorf("Expected bounce straight up, got %v", result.Ray.Direction)
			}
		})
	}
}

func TestFloor_Test_AdjacentCellsAlternate(t *testing.T) {
	floor := newUnitFloor()

	for k := -4; k < 4; k++ {
		a := core.NewVec3(float64(k)+0.5, 0, 0.5)
		b := core.NewVec3(float64(k)+1.5, 0, 0.5)
		if floor.Marked(a) == floor.Marked(b) {
			t.Errorf("Cells %d and %d should differ in marked status", k, k+1)
		}
	}
}

func TestFloor_Test_OutOfBounds(t *testing.T) {
	floor := newUnitFloor()
	ray := core.NewRay(core.NewVec3(6, 1, 0), core.NewVec3(0, -1, 0))

	result := floor.Test(ray)
	if result.Hit {
		t.Fatal("Expected miss outside the floor bounds")
	}
	if !vecNear(result.Ray.Origin, core.NewVec3(6, 0, 0), tolerance) {
		t.Errorf("Expected origin moved onto the plane, got %v", result.Ray.Origin)
	}
	if result.Ray.Direction != ray.Direction {
		t.Errorf("Direction should be unchanged, got %v", result.Ray.Direction)
	}
}

func TestFloor_Test_ObliqueReflection(t *testing.T) {
	floor := NewFloor(core.NewVec3(0, -1.2, -2), 25, 0.8)
	d := core.NewVec3(0.3, -0.8, -0.2).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 3), d)

	result := floor.Test(ray)

	if result.Ray.Origin.Y > -1.2+tolerance || result.Ray.Origin.Y < -1.2-tolerance {
		t.Errorf("Expected origin on plane y=-1.2, got %v", result.Ray.Origin)
	}

	// Component decomposition equals the mirror formula d - 2(d·n)n
	n := core.NewVec3(0, 1, 0)
	mirror := d.Subtract(n.Multiply(2 * d.Dot(n))).Normalize()
	if !vecNear(result.Ray.Direction, mirror, tolerance) {
		t.Errorf("Expected %v, got %v", mirror, result.Ray.Direction)
	}

	if result.Hit != floor.Marked(result.Ray.Origin) {
		t.Errorf("Hit flag should follow the checker parity at %v", result.Ray.Origin)
	}
}

func TestFloor_CellIndex(t *testing.T) {
	floor := NewFloor(core.NewVec3(0, 0, 0), 25, 0.8)

	tests := []struct {
		p      core.Vec3
		cx, cz int
	}{
		{core.NewVec3(0.1, 0, 0.1), 0, 0},
		{core.NewVec3(0.9, 0, -0.1), 1, -1},
		{core.NewVec3(-0.9, 0, -1.7), -2, -3},
	}

	for _, tt := range tests {
		cx, cz := floor.CellIndex(tt.p)
		if cx != tt.cx || cz != tt.cz {
			t.Errorf("CellIndex(%v) = (%d, %d), want (%d, %d)", tt.p, cx, cz, tt.cx, tt.cz)
		}
	}
}

func TestFloor_MirrorX(t *testing.T) {
	floor := NewFloor(core.NewVec3(1, -1.2, -2), 25, 0.8)
	mirrored := floor.MirrorX()

	if mirrored.Center() != core.NewVec3(-1, -1.2, -2) {
		t.Errorf("Unexpected mirrored center %v", mirrored.Center())
	}
	if mirrored.Side != floor.Side || mirrored.Cell != floor.Cell {
		t.Errorf("Dimensions changed: %+v", mirrored)
	}
}
