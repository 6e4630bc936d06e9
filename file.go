// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import (
	"errors"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/metrowerks-tools/cwobj/log"
)

// ErrUnrecognizedContainer is returned when a buffer's leading magic
// word matches neither a library nor a bare object.
var ErrUnrecognizedContainer = errors.New("cwobj: unrecognized container magic")

// ContainerKind identifies which top-level container a File holds.
type ContainerKind int

// Known container kinds.
const (
	ContainerUnknown ContainerKind = iota
	ContainerObject
	ContainerLibrary
)

// Options configures how a File is parsed.
type Options struct {
	// A custom logger. Defaults to a stderr logger filtered to
	// warnings and above.
	Logger log.Logger
}

// File represents an open CodeWarrior object or library container.
// Exactly one of Object or Library is populated after Parse succeeds,
// according to Kind.
type File struct {
	Kind    ContainerKind
	Object  *Object
	Library *Library

	data   []byte
	mapped mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// New instantiates a File backed by a memory-mapped view of the named
// file. The caller must call Close when done to release the mapping.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(opts)
	file.data = data
	file.mapped = data
	file.f = f
	return file, nil
}

// NewBytes instantiates a File directly from an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := newFile(opts)
	file.data = data
	return file, nil
}

func newFile(opts *Options) *File {
	file := &File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}

	if file.opts.Logger == nil {
		stdLogger := log.NewStdLogger(os.Stderr)
		file.logger = log.NewHelper(log.NewFilter(stdLogger, log.FilterLevel(log.LevelWarn)))
	} else {
		file.logger = log.NewHelper(file.opts.Logger)
	}
	return file
}

// Close releases the memory mapping backing this File, if any.
func (f *File) Close() error {
	if f.mapped != nil {
		_ = f.mapped.Unmap()
	}
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// Parse sniffs the container's leading magic word and decodes it as
// either a library or a bare object.
func (f *File) Parse() error {
	magic, err := beU32At(f.data, 0)
	if err != nil {
		return err
	}

	switch magic {
	case libMagic:
		f.logger.Debugf("decoding library container")
		lib, err := DecodeLibrary(f.data)
		if err != nil {
			return err
		}
		f.Kind = ContainerLibrary
		f.Library = lib
		f.logger.Infof("decoded library with %d members", len(lib.Members))
		return nil

	case objMagic:
		f.logger.Debugf("decoding bare object container")
		obj, err := DecodeObject(f.data)
		if err != nil {
			return err
		}
		f.Kind = ContainerObject
		f.Object = obj
		f.logger.Infof("decoded object with %d hunks", len(obj.Hunks))
		return nil

	default:
		return ErrUnrecognizedContainer
	}
}
