package vm

import (
	"log"
)

// A FrameAllocator tracks which physical frames are occupied.
type FrameAllocator struct {
	occupied    []bool
	owner       []PageNumber
	numOccupied int
}

// NewFrameAllocator creates an allocator with all the frames free.
func NewFrameAllocator(numFrames int) *FrameAllocator {
	if numFrames <= 0 {
		log.Panicf("number of frames must be positive, got %d", numFrames)
	}

	return &FrameAllocator{
		occupied: make([]bool, numFrames),
		owner:    make([]PageNumber, numFrames),
	}
}

// NumFrames returns the number of physical frames.
func (a *FrameAllocator) NumFrames() int {
	return len(a.occupied)
}

// NumOccupied returns the number of frames that are bound to a page.
func (a *FrameAllocator) NumOccupied() int {
	return a.numOccupied
}

// AllocateFree returns the lowest-numbered free frame. The frame is not
// marked as occupied until it is bound.
func (a *FrameAllocator) AllocateFree() (FrameNumber, bool) {
	for i, occupied := range a.occupied {
		if !occupied {
			return FrameNumber(i), true
		}
	}

	return 0, false
}

// Bind marks the frame as occupied by the page.
func (a *FrameAllocator) Bind(frame FrameNumber, page PageNumber) {
	a.frameMustBeInRange(frame)

	if a.occupied[frame] {
		log.Panicf("frame %d is already bound to page 0x%x",
			frame, a.owner[frame])
	}

	a.occupied[frame] = true
	a.owner[frame] = page
	a.numOccupied++
}

// Release frees the frame.
func (a *FrameAllocator) Release(frame FrameNumber) {
	a.frameMustBeInRange(frame)

	if !a.occupied[frame] {
		log.Panicf("frame %d is released twice", frame)
	}

	a.occupied[frame] = false
	a.owner[frame] = 0
	a.numOccupied--
}

// IsOccupied tells if the frame is bound to a page.
func (a *FrameAllocator) IsOccupied(frame FrameNumber) bool {
	a.frameMustBeInRange(frame)
	return a.occupied[frame]
}

// Owner returns the page bound to the frame.
func (a *FrameAllocator) Owner(frame FrameNumber) (PageNumber, bool) {
	a.frameMustBeInRange(frame)
	return a.owner[frame], a.occupied[frame]
}

// Reset frees every frame.
func (a *FrameAllocator) Reset() {
	for i := range a.occupied {
		a.occupied[i] = false
		a.owner[i] = 0
	}

	a.numOccupied = 0
}

func (a *FrameAllocator) frameMustBeInRange(frame FrameNumber) {
	if uint64(frame) >= uint64(len(a.occupied)) {
		log.Panicf("frame %d out of range [0, %d)", frame, len(a.occupied))
	}
}
