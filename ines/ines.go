// package ines implements a Reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"io"
	"os"

	"github.com/go-faster/errors"

	"nescore/emu/log"
)

// ErrMalformedROM is returned (wrapped) for every rom that cannot produce a
// runnable system: bad magic, truncated data, trainer or PAL region.
var ErrMalformedROM = errors.New("malformed rom")

const (
	PRGBankSize = 16 * 1024
	CHRBankSize = 8 * 1024
	trainerSize = 512
)

type Rom struct {
	header
	PRG []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR []byte // CHR is CHR ROM data (length is multiples of 8k), empty for CHR RAM.
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return rom, nil
}

// Decode decodes a rom from an in-memory iNES image.
func Decode(buf []byte) (*Rom, error) {
	rom := new(Rom)
	if err := rom.decode(buf); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := rom.decode(buf); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

func (rom *Rom) decode(buf []byte) error {
	if err := rom.header.decode(buf); err != nil {
		return errors.Wrap(err, "failed to decode header")
	}
	off := 16

	if rom.dirty() {
		log.ModEmu.WarnZ("iNES header padding is not zero").
			Blob("header", rom.raw[7:16]).
			End()
	}
	if rom.HasTrainer() {
		return errors.Wrap(ErrMalformedROM, "trainer is not supported")
	}
	if rom.IsPAL() {
		return errors.Wrap(ErrMalformedROM, "PAL roms are not supported")
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return errors.Wrapf(ErrMalformedROM, "incomplete PRG section (%d/%d bytes)", len(buf)-off, rom.prgsz)
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return errors.Wrapf(ErrMalformedROM, "incomplete CHR section (%d/%d bytes)", len(buf)-off, rom.chrsz)
	}
	rom.CHR = buf[off : off+rom.chrsz]
	return nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return errors.Wrap(ErrMalformedROM, "too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return errors.Wrap(ErrMalformedROM, "invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * PRGBankSize
	hdr.chrsz = int(hdr.raw[5]) * CHRBankSize
	if hdr.prgsz == 0 {
		return errors.Wrap(ErrMalformedROM, "no PRG banks")
	}
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// Header returns the raw 16-byte header.
func (hdr *header) Header() [16]byte {
	return hdr.raw
}

// PRGBanks returns the number of 16KB PRG-ROM banks.
func (hdr *header) PRGBanks() int {
	return int(hdr.raw[4])
}

// CHRBanks returns the number of 8KB CHR-ROM banks. Zero means the cartridge
// uses CHR-RAM.
func (hdr *header) CHRBanks() int {
	return int(hdr.raw[5])
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of battery-backed memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header uses the NES 2.0 extensions.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// dirty reports an iNES 1.0 header whose padding bytes have been overwritten
// (typically with "DiskDude!"). The header is still decoded as is.
func (hdr *header) dirty() bool {
	if hdr.IsNES20() {
		return false
	}
	for _, b := range hdr.raw[12:16] {
		if b != 0 {
			return true
		}
	}
	return false
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint16 {
	num := uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
	if hdr.IsNES20() {
		num |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return num
}

// IsPAL reports whether the rom targets PAL hardware.
func (hdr *header) IsPAL() bool {
	if hdr.IsNES20() {
		return hdr.raw[12]&0x03 == 1
	}
	return hdr.raw[9]&0x01 != 0
}

// Mirroring returns the nametable mirroring mode set in the header.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}
