package vnmo

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

type voxelGrid struct {
	LeafSize vec2d.T
}

type voxel struct {
	sum   [3]float64
	num   int
	index int
}

type voxelKey [2]int64

func newVoxelGrid(leafSize vec2d.T) *voxelGrid {
	return &voxelGrid{LeafSize: leafSize}
}

func (f *voxelGrid) key(p ControlPoint, min vec2d.T) voxelKey {
	var k voxelKey
	pos := p.Position()
	for i := range k {
		if f.LeafSize[i] > 0 {
			k[i] = int64(math.Floor((pos[i] - min[i]) / f.LeafSize[i]))
		} else {
			k[i] = int64(math.Float64bits(pos[i]))
		}
	}
	return k
}

// Filter replaces every group of picks that share a cell with one pick at the
// group's mean position and velocity. Cells are LeafSize wide along each axis;
// a non-positive leaf size only groups picks with identical coordinates.
// Output keeps the order in which each cell was first seen.
func (f *voxelGrid) Filter(pc []ControlPoint) []ControlPoint {
	if len(pc) == 0 {
		return nil
	}

	min := vec2d.MaxVal
	for i := range pc {
		min[0] = math.Min(min[0], pc[i].Trace)
		min[1] = math.Min(min[1], pc[i].Time)
	}

	voxels := make([]voxel, 0, len(pc))
	lookup := make(map[voxelKey]int, len(pc))
	for i := range pc {
		k := f.key(pc[i], min)
		vi, ok := lookup[k]
		if !ok {
			vi = len(voxels)
			lookup[k] = vi
			voxels = append(voxels, voxel{index: i})
		}
		v := &voxels[vi]
		v.num++
		v.sum[0] += pc[i].Trace
		v.sum[1] += pc[i].Time
		v.sum[2] += pc[i].Velocity
	}

	ret := make([]ControlPoint, 0, len(voxels))
	for i := range voxels {
		v := &voxels[i]
		if v.num == 1 {
			ret = append(ret, pc[v.index])
			continue
		}
		n := float64(v.num)
		ret = append(ret, ControlPoint{Trace: v.sum[0] / n, Time: v.sum[1] / n, Velocity: v.sum[2] / n})
	}
	return ret
}

// MergeDuplicates averages picks that fall into the same leaf-sized cell of
// (trace, time). With a zero leaf only exact duplicates are merged.
func MergeDuplicates(points []ControlPoint, leaf vec2d.T) []ControlPoint {
	return newVoxelGrid(leaf).Filter(points)
}
