// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "time"

// libMagic is the leading magic word of every library buffer,
// spelling "MWOB" in ASCII.
const libMagic = 0x4D574F42

// libHeaderSize is the fixed size of a library's header, after which
// its per-file records begin.
const libHeaderSize = 28

// libFileRecordSize is the fixed size of one per-file record following
// a library's header.
const libFileRecordSize = 20

// Processor identifies the target architecture a library's member
// objects were compiled for.
type Processor uint32

// Known library processors.
const (
	ProcessorUnknown Processor = 0
	ProcessorPowerPC Processor = 0x50504320
	ProcessorM68K    Processor = 0x4D36384B
)

func processorFrom(v uint32) (Processor, bool) {
	switch Processor(v) {
	case ProcessorUnknown, ProcessorPowerPC, ProcessorM68K:
		return Processor(v), true
	default:
		return ProcessorUnknown, false
	}
}

// LibraryMember is one archived object within a library: its
// bookkeeping fields plus the fully decoded object they locate.
type LibraryMember struct {
	ModDate  uint32
	FileName string
	FullPath string
	Object   *Object
}

// ModTime converts this member's raw Mac-epoch modification date to a
// UTC time.
func (m LibraryMember) ModTime() time.Time {
	return fromMacDate(m.ModDate)
}

// Library is a fully decoded CodeWarrior object library: the archive
// header plus every member, each already decoded via DecodeObject.
type Library struct {
	Processor Processor
	Version   uint32
	CodeSize  uint32
	DataSize  uint32
	Members   []LibraryMember
}

// DecodeLibrary decodes a CodeWarrior library container from data,
// including every member's full compiled object.
func DecodeLibrary(data []byte) (*Library, error) {
	if err := (&cursor{data: data}).require(libHeaderSize); err != nil {
		return nil, err
	}

	magic, err := beU32At(data, 0)
	if err != nil {
		return nil, err
	}
	if magic != libMagic {
		return nil, ErrBadLibMagic
	}

	procRaw, err := beU32At(data, 4)
	if err != nil {
		return nil, err
	}
	proc, ok := processorFrom(procRaw)
	if !ok {
		return nil, ErrBadLibVersionForProcessor
	}

	flags, err := beU32At(data, 8)
	if err != nil {
		return nil, err
	}
	if flags != 0 {
		return nil, &ReservedNonZero{Field: "flags", Got: flags}
	}

	version, err := beU32At(data, 12)
	if err != nil {
		return nil, err
	}
	switch proc {
	case ProcessorPowerPC:
		if version != 1 {
			return nil, ErrBadLibVersionForProcessor
		}
	case ProcessorM68K:
		if version != 2 {
			return nil, ErrBadLibVersionForProcessor
		}
	}
	codeSize, err := beU32At(data, 16)
	if err != nil {
		return nil, err
	}
	dataSize, err := beU32At(data, 20)
	if err != nil {
		return nil, err
	}
	numFiles, err := beU32At(data, 24)
	if err != nil {
		return nil, err
	}

	var members []LibraryMember
	pos := libHeaderSize
	for i := uint32(0); i < numFiles; i++ {
		record, err := sliceAt(data, pos, libFileRecordSize)
		if err != nil {
			return nil, err
		}
		modDate := beU32Bytes(record[0:4])
		fileNameLoc := beU32Bytes(record[4:8])
		fullPathLoc := beU32Bytes(record[8:12])
		dataStart := beU32Bytes(record[12:16])
		dataSizeField := beU32Bytes(record[16:20])

		// Name, path, and payload offsets are relative to the start of
		// the library buffer, not to this file record.
		fileName, err := cstringAt(data, int(fileNameLoc))
		if err != nil {
			return nil, err
		}
		var fullPath string
		if fullPathLoc != 0 {
			fullPath, err = cstringAt(data, int(fullPathLoc))
			if err != nil {
				return nil, err
			}
		}
		payload, err := sliceAt(data, int(dataStart), int(dataSizeField))
		if err != nil {
			return nil, err
		}
		object, err := DecodeObject(payload)
		if err != nil {
			return nil, err
		}

		members = append(members, LibraryMember{
			ModDate:  modDate,
			FileName: fileName,
			FullPath: fullPath,
			Object:   object,
		})
		pos += libFileRecordSize
	}

	return &Library{
		Processor: proc,
		Version:   version,
		CodeSize:  codeSize,
		DataSize:  dataSize,
		Members:   members,
	}, nil
}
