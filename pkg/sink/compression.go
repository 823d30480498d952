// Copyright 2025 ScyllaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"bufio"
	"compress/gzip"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

type Compression int

const (
	NoCompression Compression = iota
	ZSTDCompression
	GZIPCompression
	LZ4Compression
	SnappyCompression
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case ZSTDCompression:
		return "zstd"
	case GZIPCompression:
		return "gzip"
	case LZ4Compression:
		return "lz4"
	case SnappyCompression:
		return "snappy"
	default:
		panic("unknown compression")
	}
}

func MustParseCompression(value string) Compression {
	c, err := ParseCompression(value)
	if err != nil {
		panic(err)
	}

	return c
}

func ParseCompression(value string) (Compression, error) {
	switch value {
	case "none", "":
		return NoCompression, nil
	case "zstd":
		return ZSTDCompression, nil
	case "gzip":
		return GZIPCompression, nil
	case "lz4":
		return LZ4Compression, nil
	case "snappy":
		return SnappyCompression, nil
	default:
		return NoCompression, errors.Errorf("unknown compression %q", value)
	}
}

// NewReader undoes the compression applied by a Writer.
func (c Compression) NewReader(input io.Reader) (io.ReadCloser, error) {
	switch c {
	case ZSTDCompression:
		decoder, err := zstd.NewReader(input)
		if err != nil {
			return nil, err
		}
		return decoder.IOReadCloser(), nil
	case GZIPCompression:
		return gzip.NewReader(input)
	case LZ4Compression:
		return io.NopCloser(lz4.NewReader(input)), nil
	case SnappyCompression:
		return io.NopCloser(snappy.NewReader(input)), nil
	default:
		return io.NopCloser(input), nil
	}
}

// newWriter returns the buffered head of the chain and the compressor to
// close after flushing it. The compressor is nil without compression.
func (c Compression) newWriter(input io.Writer) (*bufio.Writer, io.Closer, error) {
	var closer io.WriteCloser
	switch c {
	case ZSTDCompression:
		zstdWriter, err := zstd.NewWriter(
			input,
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderCRC(true),
			zstd.WithWindowSize(zstd.MaxWindowSize),
			zstd.WithLowerEncoderMem(false),
		)
		if err != nil {
			return nil, nil, err
		}

		closer = zstdWriter
	case GZIPCompression:
		gzipWriter, err := gzip.NewWriterLevel(input, gzip.BestSpeed)
		if err != nil {
			return nil, nil, err
		}

		closer = gzipWriter
	case LZ4Compression:
		lz4Writer := lz4.NewWriter(input)
		if err := lz4Writer.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return nil, nil, err
		}

		closer = lz4Writer
	case SnappyCompression:
		closer = snappy.NewBufferedWriter(input)
	default:
		return bufio.NewWriterSize(input, bufioWriterSize), nil, nil
	}

	return bufio.NewWriterSize(closer, bufioWriterSize), closer, nil
}
