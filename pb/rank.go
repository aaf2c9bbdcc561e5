// Package pb holds the wire messages of the rank service.
//
// The types are maintained by hand in the shape protoc-gen-gogo emits for
// rank.proto and are encoded with gogo/protobuf's reflection path. A change
// to rank.proto needs the matching change to the struct tags here;
// TestWireFormat pins the field numbers.
package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

type RankRequest struct {
	Rows                 *uint32  `protobuf:"varint,1,opt,name=rows" json:"rows,omitempty"`
	WordsPerRow          *uint32  `protobuf:"varint,2,opt,name=words_per_row,json=wordsPerRow" json:"words_per_row,omitempty"`
	Words                []uint64 `protobuf:"varint,3,rep,packed,name=words" json:"words,omitempty"`
	BlockWidth           *uint32  `protobuf:"varint,4,opt,name=block_width,json=blockWidth" json:"block_width,omitempty"`
	ReturnReduced        *bool    `protobuf:"varint,5,opt,name=return_reduced,json=returnReduced" json:"return_reduced,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *RankRequest) Reset()         { *m = RankRequest{} }
func (m *RankRequest) String() string { return proto.CompactTextString(m) }
func (*RankRequest) ProtoMessage()    {}

func (m *RankRequest) GetRows() uint32 {
	if m != nil && m.Rows != nil {
		return *m.Rows
	}
	return 0
}

func (m *RankRequest) GetWordsPerRow() uint32 {
	if m != nil && m.WordsPerRow != nil {
		return *m.WordsPerRow
	}
	return 0
}

func (m *RankRequest) GetWords() []uint64 {
	if m != nil {
		return m.Words
	}
	return nil
}

func (m *RankRequest) GetBlockWidth() uint32 {
	if m != nil && m.BlockWidth != nil {
		return *m.BlockWidth
	}
	return 0
}

func (m *RankRequest) GetReturnReduced() bool {
	if m != nil && m.ReturnReduced != nil {
		return *m.ReturnReduced
	}
	return false
}

type RankResponse struct {
	Rank                 *uint32  `protobuf:"varint,1,opt,name=rank" json:"rank,omitempty"`
	Error                *string  `protobuf:"bytes,2,opt,name=error" json:"error,omitempty"`
	Reduced              []uint64 `protobuf:"varint,3,rep,packed,name=reduced" json:"reduced,omitempty"`
	BlockWidth           *uint32  `protobuf:"varint,4,opt,name=block_width,json=blockWidth" json:"block_width,omitempty"`
	Blocks               *uint32  `protobuf:"varint,5,opt,name=blocks" json:"blocks,omitempty"`
	FallbackPivots       *uint32  `protobuf:"varint,6,opt,name=fallback_pivots,json=fallbackPivots" json:"fallback_pivots,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *RankResponse) Reset()         { *m = RankResponse{} }
func (m *RankResponse) String() string { return proto.CompactTextString(m) }
func (*RankResponse) ProtoMessage()    {}

func (m *RankResponse) GetRank() uint32 {
	if m != nil && m.Rank != nil {
		return *m.Rank
	}
	return 0
}

func (m *RankResponse) GetError() string {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ""
}

func (m *RankResponse) GetReduced() []uint64 {
	if m != nil {
		return m.Reduced
	}
	return nil
}

func (m *RankResponse) GetBlockWidth() uint32 {
	if m != nil && m.BlockWidth != nil {
		return *m.BlockWidth
	}
	return 0
}

func (m *RankResponse) GetBlocks() uint32 {
	if m != nil && m.Blocks != nil {
		return *m.Blocks
	}
	return 0
}

func (m *RankResponse) GetFallbackPivots() uint32 {
	if m != nil && m.FallbackPivots != nil {
		return *m.FallbackPivots
	}
	return 0
}

func init() {
	proto.RegisterType((*RankRequest)(nil), "gf2rank.pb.RankRequest")
	proto.RegisterType((*RankResponse)(nil), "gf2rank.pb.RankResponse")
}
