package prototype

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Stamina is the resource usage record of a sender.
type Stamina struct {
	Used         uint64 `protobuf:"varint,1,opt,name=used,proto3" json:"used,omitempty"`
	UseTime      uint64 `protobuf:"varint,2,opt,name=use_time,json=useTime,proto3" json:"use_time,omitempty"`
	RelayUsed    uint64 `protobuf:"varint,3,opt,name=relay_used,json=relayUsed,proto3" json:"relay_used,omitempty"`
	RelayUseTime uint64 `protobuf:"varint,4,opt,name=relay_use_time,json=relayUseTime,proto3" json:"relay_use_time,omitempty"`
}

func (m *Stamina) Reset()         { *m = Stamina{} }
func (m *Stamina) String() string { return proto.CompactTextString(m) }
func (*Stamina) ProtoMessage()    {}

func (m *Stamina) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

func DecodeStamina(data []byte) (*Stamina, error) {
	s := new(Stamina)
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return s, nil
}
