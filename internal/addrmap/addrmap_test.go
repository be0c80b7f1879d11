package addrmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armcore/armemu/internal/region"
)

func TestTryFindRegionScenario(t *testing.T) {
	m := New()
	rom := region.NewHostBlock("ROM", "boot rom", make([]byte, 0x1000), region.Read)
	io := region.NewHostBlock("IO", "io block", make([]byte, 0x0100), region.ReadWrite)

	require.True(t, m.TryInsert(0x0000, rom))
	require.True(t, m.TryInsert(0x2000, io))

	r, off, remaining, ok := m.TryFindRegion(0x0800)
	require.True(t, ok)
	require.Same(t, rom, r)
	require.EqualValues(t, 0x800, off)
	require.EqualValues(t, 0x800, remaining)

	_, _, _, ok = m.TryFindRegion(0x1500)
	require.False(t, ok)

	r, off, remaining, ok = m.TryFindRegion(0x2004)
	require.True(t, ok)
	require.Same(t, io, r)
	require.EqualValues(t, 4, off)
	require.EqualValues(t, 0xFC, remaining)

	overlap := region.NewHostBlock("overlap", "", make([]byte, 0x100), region.Read)
	require.False(t, m.TryInsert(0x0800, overlap))
}

func TestTryInsertRejectsOverlap(t *testing.T) {
	m := New()
	a := region.NewHostBlock("a", "", make([]byte, 0x100), region.Read)
	b := region.NewHostBlock("b", "", make([]byte, 0x100), region.Read)

	require.True(t, m.TryInsert(0x1000, a))
	require.False(t, m.TryInsert(0x1080, b))
	require.True(t, m.TryInsert(0x1100, b))
}

func TestMappingsOrderedAfterOutOfOrderInserts(t *testing.T) {
	m := New()
	regions := []struct {
		base uint32
		name string
	}{
		{0x3000, "c"}, {0x1000, "a"}, {0x2000, "b"},
	}
	for _, r := range regions {
		require.True(t, m.TryInsert(r.base, region.NewHostBlock(r.name, "", make([]byte, 0x100), region.Read)))
	}

	mappings := m.Mappings()
	require.Len(t, mappings, 3)
	for i := 1; i < len(mappings); i++ {
		require.Less(t, mappings[i-1].Base, mappings[i].Base)
	}
}

func TestReadWritePhysRoundTrip(t *testing.T) {
	m := New()
	ram := region.NewHostBlock("RAM", "", make([]byte, 0x100), region.ReadWrite)
	require.True(t, m.TryInsert(0x1000, ram))

	data := []byte{1, 2, 3, 4, 5}
	n, err := m.WritePhys(0x1004, data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	buf := make([]byte, len(data))
	n, err = m.ReadPhys(0x1004, buf)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)
}

func TestReadPhysStopsAtUnmappedGap(t *testing.T) {
	m := New()
	ram := region.NewHostBlock("RAM", "", make([]byte, 0x10), region.ReadWrite)
	require.True(t, m.TryInsert(0x1000, ram))

	buf := make([]byte, 0x20)
	n, err := m.ReadPhys(0x1000, buf)
	require.NoError(t, err)
	require.Equal(t, 0x10, n)
}

type fakeMMIO struct {
	name string
	regs [4]uint32
}

func (f *fakeMMIO) Kind() region.Kind        { return region.KindMMIO }
func (f *fakeMMIO) Name() string             { return f.name }
func (f *fakeMMIO) Description() string      { return "" }
func (f *fakeMMIO) Len() uint32              { return uint32(len(f.regs) * 4) }
func (f *fakeMMIO) Read(off uint32) (uint32, error) {
	if off%4 != 0 {
		return 0, &region.ErrUnaligned{Device: f.name, Offset: off}
	}
	return f.regs[off/4], nil
}
func (f *fakeMMIO) Write(off uint32, v uint32) error {
	if off%4 != 0 {
		return &region.ErrUnaligned{Device: f.name, Offset: off}
	}
	f.regs[off/4] = v
	return nil
}

func TestMMIOWordAlignedAccess(t *testing.T) {
	m := New()
	dev := &fakeMMIO{name: "dev"}
	require.True(t, m.TryInsert(0x4000, dev))

	n, err := m.WritePhys(0x4000, []byte{0xEF, 0xBE, 0xAD, 0xDE})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.EqualValues(t, 0xDEADBEEF, dev.regs[0])

	buf := make([]byte, 4)
	n, err = m.ReadPhys(0x4000, buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, buf)
}

func TestMMIOUnalignedAccessErrors(t *testing.T) {
	m := New()
	dev := &fakeMMIO{name: "dev"}
	require.True(t, m.TryInsert(0x4000, dev))

	_, err := m.ReadPhys(0x4001, make([]byte, 4))
	require.Error(t, err)
}
