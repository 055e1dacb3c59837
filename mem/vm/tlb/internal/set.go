// Package internal provides the definition required for defining TLB.
package internal

import (
	"log"

	"github.com/sarchlab/pagesim/mem/vm"
)

// A Block is one way of a TLB set.
type Block struct {
	Page  vm.PageNumber
	Frame vm.FrameNumber
	Valid bool
}

// A Set holds a certain number of blocks.
type Set interface {
	// Lookup finds the valid block that holds the page.
	Lookup(page vm.PageNumber) (wayID int, block Block, found bool)

	// Update overwrites the block at the way.
	Update(wayID int, block Block)

	// Evict returns the way that should be overwritten next.
	Evict() (wayID int)

	// Invalidate drops the block at the way.
	Invalidate(wayID int)

	// Blocks returns a copy of all the ways, in way order.
	Blocks() []Block

	// NumWays returns the number of ways.
	NumWays() int

	// Reset invalidates all the ways and rewinds the replacement cursor.
	Reset()
}

// NewFIFOSet creates a fully associative set that replaces its ways in
// round-robin order.
func NewFIFOSet(numWays int) Set {
	if numWays <= 0 {
		log.Panicf("number of ways must be positive, got %d", numWays)
	}

	s := &fifoSet{}
	s.blocks = make([]Block, numWays)
	s.pageWayIDMap = make(map[vm.PageNumber]int, numWays)

	return s
}

type fifoSet struct {
	blocks       []Block
	pageWayIDMap map[vm.PageNumber]int
	cursor       int
}

func (s *fifoSet) Lookup(page vm.PageNumber) (int, Block, bool) {
	wayID, ok := s.pageWayIDMap[page]
	if !ok {
		return 0, Block{}, false
	}

	return wayID, s.blocks[wayID], true
}

func (s *fifoSet) Update(wayID int, block Block) {
	s.wayMustBeInRange(wayID)

	if other, ok := s.pageWayIDMap[block.Page]; ok && other != wayID &&
		block.Valid {
		log.Panicf("page 0x%x is already cached in way %d", block.Page, other)
	}

	s.Invalidate(wayID)

	s.blocks[wayID] = block
	if block.Valid {
		s.pageWayIDMap[block.Page] = wayID
	}
}

func (s *fifoSet) Evict() int {
	wayID := s.cursor
	s.cursor = (s.cursor + 1) % len(s.blocks)

	return wayID
}

func (s *fifoSet) Invalidate(wayID int) {
	s.wayMustBeInRange(wayID)

	block := &s.blocks[wayID]
	if block.Valid {
		delete(s.pageWayIDMap, block.Page)
	}

	block.Valid = false
}

func (s *fifoSet) Blocks() []Block {
	blocks := make([]Block, len(s.blocks))
	copy(blocks, s.blocks)

	return blocks
}

func (s *fifoSet) NumWays() int {
	return len(s.blocks)
}

func (s *fifoSet) Reset() {
	for i := range s.blocks {
		s.blocks[i] = Block{}
	}

	s.pageWayIDMap = make(map[vm.PageNumber]int, len(s.blocks))
	s.cursor = 0
}

func (s *fifoSet) wayMustBeInRange(wayID int) {
	if wayID < 0 || wayID >= len(s.blocks) {
		log.Panicf("way %d out of range [0, %d)", wayID, len(s.blocks))
	}
}
