package gime

import "fmt"

// PhysicalMemorySize is the 19-bit physical address space the MMU maps into.
const PhysicalMemorySize = 512 * 1024

// passthroughBase is where the 64K virtual space lands when translation is
// off: 1:1 onto the top 64K of physical memory.
const passthroughBase = PhysicalMemorySize - 0x10000

// parsPerSet is the number of page address registers in one set. The top
// three bits of a virtual address select the slot.
const parsPerSet = 8

// PARSet is one ordered bank of eight 6-bit page address registers.
type PARSet [parsPerSet]byte

// MMU translates 16-bit virtual addresses to the 19-bit physical space
// through two switchable PAR sets. The executive set serves normal
// operation; the task set is selected by the task-register bit.
type MMU struct {
	exec PARSet
	task PARSet
}

func NewMMU() *MMU { return &MMU{} }

// SetPAR stores a page address register. Only the low 6 bits of v are
// significant. An index outside 0..7 violates the bus decode and panics.
func (m *MMU) SetPAR(task bool, index int, v byte) {
	if index < 0 || index >= parsPerSet {
		panic(fmt.Sprintf("mmu: PAR index %d out of range", index))
	}
	if task {
		m.task[index] = v & 0x3F
	} else {
		m.exec[index] = v & 0x3F
	}
}

// PAR returns a stored page address register.
func (m *MMU) PAR(task bool, index int) byte {
	if index < 0 || index >= parsPerSet {
		panic(fmt.Sprintf("mmu: PAR index %d out of range", index))
	}
	if task {
		return m.task[index]
	}
	return m.exec[index]
}

// Map resolves a virtual address to a physical one. With translation
// enabled, the top 3 virtual bits select a PAR whose 6 bits become the top
// of the physical address; the low 13 bits pass through. Disabled, the
// whole 64K maps onto the top of physical memory.
func (m *MMU) Map(virt uint16, task, enabled bool) uint32 {
	if !enabled {
		return passthroughBase + uint32(virt)
	}
	set := &m.exec
	if task {
		set = &m.task
	}
	par := set[virt>>13]
	return uint32(par)<<13 | uint32(virt&0x1FFF)
}
