package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/encoding"
)

// 微信支付成功，金额：128.50元，商户：星巴克咖啡
var gb18030Notice = []byte{
	206, 162, 208, 197, 214, 167, 184, 182, 179, 201, 185, 166, 163, 172, 189, 240,
	182, 238, 163, 186, 49, 50, 56, 46, 53, 48, 212, 170, 163, 172, 201, 204,
	187, 167, 163, 186, 208, 199, 176, 205, 191, 203, 191, 167, 183, 200,
}

// 微信支付成功
var big5Notice = []byte{183, 76, 171, 72, 164, 228, 165, 73, 166, 168, 165, 92}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "微信支付成功\n¥128.50 星巴克\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252: ç = 0xE7, ã = 0xE3
	latin1Bytes := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
		'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição;Montante\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("收款到账")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "收款到账", string(got))
}

func TestReadString_Charset(t *testing.T) {
	type args struct {
		data    []byte
		charset string
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{
			name: "GB18030",
			args: args{data: gb18030Notice, charset: "GB18030"},
			want: "微信支付成功，金额：128.50元，商户：星巴克咖啡",
		},
		{
			name: "GBKAlias",
			args: args{data: gb18030Notice, charset: "gbk"},
			want: "微信支付成功，金额：128.50元，商户：星巴克咖啡",
		},
		{
			name: "Big5",
			args: args{data: big5Notice, charset: "big5"},
			want: "微信支付成功",
		},
		{
			name: "ExplicitUTF8",
			args: args{data: []byte("¥36"), charset: "UTF-8"},
			want: "¥36",
		},
		{
			name: "UnknownCharsetDetects",
			args: args{data: []byte("¥36"), charset: "x-made-up"},
			want: "¥36",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoding.ReadString(bytes.NewReader(tt.args.data), tt.args.charset, 1<<16)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadString_Limit(t *testing.T) {
	got, err := encoding.ReadString(strings.NewReader(strings.Repeat("a", 100)), "", 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
