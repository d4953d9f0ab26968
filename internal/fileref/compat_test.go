package fileref

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// schema builds the reference messages from a descriptor so the hand-written
// codec can be checked against the protobuf runtime.
func schema(t *testing.T) (ref, v1 protoreflect.MessageDescriptor) {
	t.Helper()

	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
	fdp := &descriptorpb.FileDescriptorProto{
		Name:   proto.String("fileref.proto"),
		Syntax: proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("FileRefV1"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("created_at"), JsonName: proto.String("createdAt"), Number: proto.Int32(1), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_UINT64.Enum()},
					{Name: proto.String("random"), JsonName: proto.String("random"), Number: proto.Int32(2), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum()},
					{Name: proto.String("size"), JsonName: proto.String("size"), Number: proto.Int32(3), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_UINT64.Enum(), OneofIndex: proto.Int32(0), Proto3Optional: proto.Bool(true)},
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("_size")}},
			},
			{
				Name: proto.String("FileRef"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("v1"), JsonName: proto.String("v1"), Number: proto.Int32(1), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(), TypeName: proto.String(".FileRefV1"), OneofIndex: proto.Int32(0)},
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("version")}},
			},
		},
	}

	fd, err := protodesc.NewFile(fdp, nil)
	require.NoError(t, err)

	return fd.Messages().ByName("FileRef"), fd.Messages().ByName("FileRefV1")
}

func TestDecode_AcceptsProtobufRuntimeEncoding(t *testing.T) {
	refDesc, v1Desc := schema(t)
	random := testRandom()

	v1 := dynamicpb.NewMessage(v1Desc)
	v1.Set(v1Desc.Fields().ByName("created_at"), protoreflect.ValueOfUint64(1700000000))
	v1.Set(v1Desc.Fields().ByName("random"), protoreflect.ValueOfBytes(random[:]))
	v1.Set(v1Desc.Fields().ByName("size"), protoreflect.ValueOfUint64(0))

	msg := dynamicpb.NewMessage(refDesc)
	msg.Set(refDesc.Fields().ByName("v1"), protoreflect.ValueOfMessage(v1))

	b, err := proto.Marshal(msg)
	require.NoError(t, err)

	got, err := Decode(base64.RawURLEncoding.EncodeToString(b))
	require.NoError(t, err)
	assert.Equal(t, V1{CreatedAt: 1700000000, Random: random, Size: SizeOf(0)}, got)
}

func TestEncode_ReadableByProtobufRuntime(t *testing.T) {
	refDesc, v1Desc := schema(t)
	random := testRandom()

	token, err := Encode(V1{CreatedAt: 1700000000, Random: random, Size: SizeOf(524288)})
	require.NoError(t, err)

	b, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	msg := dynamicpb.NewMessage(refDesc)
	require.NoError(t, proto.Unmarshal(b, msg))

	v1 := msg.Get(refDesc.Fields().ByName("v1")).Message()
	assert.Equal(t, uint64(1700000000), v1.Get(v1Desc.Fields().ByName("created_at")).Uint())
	assert.Equal(t, random[:], v1.Get(v1Desc.Fields().ByName("random")).Bytes())
	assert.True(t, v1.Has(v1Desc.Fields().ByName("size")))
	assert.Equal(t, uint64(524288), v1.Get(v1Desc.Fields().ByName("size")).Uint())
}
