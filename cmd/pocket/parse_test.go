package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestInputText(t *testing.T) {
	gbk, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("收到工资 8000元\n"))
	require.NoError(t, err)

	type args struct {
		stdin   []byte
		args    []string
		charset string
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{
			name: "ArgsJoined",
			args: args{args: []string{"午饭", "25元"}},
			want: "午饭 25元",
		},
		{
			name: "StdinUTF8",
			args: args{stdin: []byte("  打车 ¥32.5 \n")},
			want: "打车 ¥32.5",
		},
		{
			name: "StdinExplicitCharset",
			args: args{stdin: gbk, charset: "gbk"},
			want: "收到工资 8000元",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inputText(bytes.NewReader(tt.args.stdin), tt.args.args, tt.args.charset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"parse", "add", "summary", "sync", "export", "token"})
	assert.True(t, strings.HasPrefix(rootCmd.Use, "pocket"))
}
