// Package nro reads the dynamic symbol table embedded in built NRO
// executable containers. The container carries no ELF file header; the
// dynamic section is reached through the module descriptor referenced at a
// fixed offset of the loaded image, so parsing works on raw bytes rather
// than debug/elf.
package nro

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dynamic section tags consulted while locating the tables.
const (
	dtNull   = 0
	dtStrtab = 5
	dtSymtab = 6
	dtStrsz  = 10
	dtSyment = 11
)

const (
	headerMagicOffset = 0x10
	textSegmentOffset = 0x20
	roSegmentOffset   = 0x28
	dataSegmentOffset = 0x30
	symbolEntrySize   = 24
)

// SymbolType is the low nibble of a symbol record's info field.
type SymbolType uint8

// Symbol types.
const (
	TypeNoType SymbolType = iota
	TypeObject
	TypeFunc
	TypeSection
	TypeFile
	TypeCommon
	TypeTLS
)

func (t SymbolType) String() string {
	switch t {
	case TypeNoType:
		return "NOTYPE"
	case TypeObject:
		return "OBJECT"
	case TypeFunc:
		return "FUNC"
	case TypeSection:
		return "SECTION"
	case TypeFile:
		return "FILE"
	case TypeCommon:
		return "COMMON"
	case TypeTLS:
		return "TLS"
	}
	return "UNKNOWN"
}

// SymbolBinding is the high nibble of a symbol record's info field.
type SymbolBinding uint8

// Symbol bindings.
const (
	BindLocal SymbolBinding = iota
	BindGlobal
	BindWeak
)

func (b SymbolBinding) String() string {
	switch b {
	case BindLocal:
		return "LOCAL"
	case BindGlobal:
		return "GLOBAL"
	case BindWeak:
		return "WEAK"
	}
	return "UNKNOWN"
}

// ExportSymbol is one exported-symbol record read from an artifact.
// Entries are read-only; the sequence preserves symbol table order.
type ExportSymbol struct {
	Address uint64
	Type    SymbolType
	Binding SymbolBinding
	Size    uint64
	Name    string
	Section uint16
}

// MalformedArtifactError reports a container whose module header or dynamic
// section cannot be located.
type MalformedArtifactError struct {
	Path   string
	Reason string
}

func (e *MalformedArtifactError) Error() string {
	return fmt.Sprintf("malformed artifact %s: %s", e.Path, e.Reason)
}

// TruncatedArtifactError reports declared table sizes exceeding the file's
// actual length.
type TruncatedArtifactError struct {
	Path   string
	Reason string
}

func (e *TruncatedArtifactError) Error() string {
	return fmt.Sprintf("truncated artifact %s: %s", e.Path, e.Reason)
}

// ReadExports parses the dynamic symbol table of the artifact at path and
// returns its exported symbols. Entries whose section index is the reserved
// undefined value are imports and are dropped. The whole table is read once
// per call.
func ReadExports(path string) ([]ExportSymbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return parseImage(data, path)
}

func parseImage(data []byte, path string) ([]ExportSymbol, error) {
	if len(data) < headerMagicOffset+4 || string(data[headerMagicOffset:headerMagicOffset+4]) != "NRO0" {
		return nil, &MalformedArtifactError{Path: path, Reason: "container magic not found"}
	}

	image, err := loadImage(data, path)
	if err != nil {
		return nil, err
	}

	// Module descriptor offset sits at +0x4 of the loaded image.
	if len(image) < 8 {
		return nil, &MalformedArtifactError{Path: path, Reason: "image too small for module descriptor offset"}
	}
	modOff := int(binary.LittleEndian.Uint32(image[4:8]))
	if modOff < 0 || modOff+8 > len(image) {
		return nil, &MalformedArtifactError{Path: path, Reason: "module descriptor offset out of range"}
	}
	if string(image[modOff:modOff+4]) != "MOD0" {
		return nil, &MalformedArtifactError{Path: path, Reason: "module descriptor magic not found"}
	}

	dynOff := modOff + int(int32(binary.LittleEndian.Uint32(image[modOff+4:modOff+8])))
	if dynOff < 0 || dynOff >= len(image) {
		return nil, &TruncatedArtifactError{Path: path, Reason: "dynamic section offset beyond image"}
	}

	symtabOff, strtabOff, strSize, symEntSize, err := walkDynamic(image, dynOff, path)
	if err != nil {
		return nil, err
	}

	strEnd := strtabOff + strSize
	if strEnd > len(image) {
		return nil, &TruncatedArtifactError{Path: path, Reason: "string table extends beyond image"}
	}
	if symtabOff >= strtabOff {
		return nil, &MalformedArtifactError{Path: path, Reason: "symbol table does not precede string table"}
	}

	count := (strtabOff - symtabOff) / symEntSize
	out := make([]ExportSymbol, 0, count)
	for i := 0; i < count; i++ {
		base := symtabOff + i*symEntSize
		nameIdx := int(binary.LittleEndian.Uint32(image[base : base+4]))
		info := image[base+4]
		shndx := binary.LittleEndian.Uint16(image[base+6 : base+8])
		value := binary.LittleEndian.Uint64(image[base+8 : base+16])
		size := binary.LittleEndian.Uint64(image[base+16 : base+24])

		if nameIdx == 0 {
			continue
		}
		// Undefined section index marks an import, not an export.
		if shndx == 0 {
			continue
		}
		name, ok := cstringAt(image, strtabOff+nameIdx, strEnd)
		if !ok || name == "" {
			continue
		}
		out = append(out, ExportSymbol{
			Address: value,
			Type:    SymbolType(info & 0x0f),
			Binding: SymbolBinding(info >> 4),
			Size:    size,
			Name:    name,
			Section: shndx,
		})
	}
	return out, nil
}

// loadImage reassembles the text, rodata and data segments at their load
// offsets so that dynamic-section pointers resolve like they do in memory.
func loadImage(data []byte, path string) ([]byte, error) {
	type segment struct {
		loc, size int
	}
	read := func(off int) segment {
		return segment{
			loc:  int(binary.LittleEndian.Uint32(data[off : off+4])),
			size: int(binary.LittleEndian.Uint32(data[off+4 : off+8])),
		}
	}
	if len(data) < dataSegmentOffset+8 {
		return nil, &MalformedArtifactError{Path: path, Reason: "header too small for segment descriptors"}
	}
	text := read(textSegmentOffset)
	ro := read(roSegmentOffset)
	dataSeg := read(dataSegmentOffset)

	for _, s := range []segment{text, ro, dataSeg} {
		if s.loc < 0 || s.size < 0 || s.loc+s.size > len(data) {
			return nil, &TruncatedArtifactError{Path: path, Reason: "segment descriptor exceeds file length"}
		}
	}

	image := make([]byte, 0, len(data))
	image = append(image, data[text.loc:text.loc+text.size]...)
	image = placeSegment(image, ro.loc, data[ro.loc:ro.loc+ro.size])
	image = placeSegment(image, dataSeg.loc, data[dataSeg.loc:dataSeg.loc+dataSeg.size])
	return image, nil
}

func placeSegment(image []byte, loc int, seg []byte) []byte {
	if loc > len(image) {
		image = append(image, make([]byte, loc-len(image))...)
	} else if loc < len(image) {
		image = image[:loc]
	}
	return append(image, seg...)
}

// walkDynamic scans the tagged 16-byte pairs until the null tag and returns
// the symbol and string table locations.
func walkDynamic(image []byte, dynOff int, path string) (symtabOff, strtabOff, strSize, symEntSize int, err error) {
	symEntSize = symbolEntrySize
	var haveSym, haveStr, haveStrsz bool
	off := dynOff
	for off+16 <= len(image) {
		tag := binary.LittleEndian.Uint64(image[off : off+8])
		val := binary.LittleEndian.Uint64(image[off+8 : off+16])
		off += 16
		if tag == dtNull {
			break
		}
		switch tag {
		case dtSymtab:
			symtabOff, haveSym = int(val), true
		case dtStrtab:
			strtabOff, haveStr = int(val), true
		case dtStrsz:
			strSize, haveStrsz = int(val), true
		case dtSyment:
			symEntSize = int(val)
		}
	}
	if !haveSym || !haveStr || !haveStrsz {
		return 0, 0, 0, 0, &MalformedArtifactError{Path: path, Reason: "dynamic section lacks symbol or string table tags"}
	}
	if symEntSize != symbolEntrySize {
		return 0, 0, 0, 0, &MalformedArtifactError{Path: path, Reason: fmt.Sprintf("unsupported symbol entry size %d", symEntSize)}
	}
	if symtabOff < 0 || symtabOff >= len(image) || strtabOff < 0 || strtabOff >= len(image) {
		return 0, 0, 0, 0, &TruncatedArtifactError{Path: path, Reason: "symbol or string table offset beyond image"}
	}
	if strSize <= 0 {
		return 0, 0, 0, 0, &MalformedArtifactError{Path: path, Reason: "string table size is zero"}
	}
	return symtabOff, strtabOff, strSize, symEntSize, nil
}

func cstringAt(image []byte, off, max int) (string, bool) {
	if off < 0 || off >= max || off >= len(image) {
		return "", false
	}
	end := off
	for end < max && end < len(image) && image[end] != 0 {
		end++
	}
	if end <= off {
		return "", false
	}
	return string(image[off:end]), true
}

// FindArtifacts walks root for built containers. When profile is non-empty
// only artifacts with a matching path segment are kept (e.g. "release").
// Results are sorted for deterministic processing; finding none is an error.
func FindArtifacts(root, profile string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("artifact dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact dir %s: not a directory", root)
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".nro") {
			return nil
		}
		if profile != "" && !hasPathSegment(path, profile) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("no .nro artifacts found under %s", root)
	}
	return out, nil
}

func hasPathSegment(path, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == segment {
			return true
		}
	}
	return false
}
