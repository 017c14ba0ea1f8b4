package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "dev", false},
		{"hyphen and underscore", "my-project_2", false},
		{"unicode", "über", false},
		{"empty", "", true},
		{"space", "my project", true},
		{"colon", "dev:0", true},
		{"dot", "v1.2", true},
		{"dollar", "$HOME", true},
		{"newline", "a\nb", true},
		{"quote", `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSessionValidate(t *testing.T) {
	require.NoError(t, singlePaneSession().Validate())

	t.Run("duplicate window index", func(t *testing.T) {
		s := singlePaneSession()
		s.Windows = append(s.Windows, s.Windows[0])
		s.Windows[1].Active = false
		assert.Error(t, s.Validate())
	})

	t.Run("two active windows", func(t *testing.T) {
		s := singlePaneSession()
		w := s.Windows[0]
		w.Index = "1"
		s.Windows = append(s.Windows, w)
		assert.Error(t, s.Validate())
	})

	t.Run("line break in window name", func(t *testing.T) {
		s := singlePaneSession()
		s.Windows[0].Name = "main\ntouch /tmp/x"
		assert.Error(t, s.Validate())
		s.Windows[0].Name = "main\r"
		assert.Error(t, s.Validate())
	})

	t.Run("window without panes", func(t *testing.T) {
		s := singlePaneSession()
		s.Windows[0].Panes = nil
		assert.Error(t, s.Validate())
	})

	t.Run("pane without command", func(t *testing.T) {
		s := singlePaneSession()
		s.Windows[0].Panes[0].Commands = nil
		assert.Error(t, s.Validate())
	})

	t.Run("two active panes", func(t *testing.T) {
		s := singlePaneSession()
		p := s.Windows[0].Panes[0]
		p.Index = "1"
		s.Windows[0].Panes = append(s.Windows[0].Panes, p)
		assert.Error(t, s.Validate())
	})

	t.Run("duplicate pane index", func(t *testing.T) {
		s := singlePaneSession()
		p := s.Windows[0].Panes[0]
		p.Active = false
		s.Windows[0].Panes = append(s.Windows[0].Panes, p)
		assert.Error(t, s.Validate())
	})
}

func TestActiveLookups(t *testing.T) {
	s := singlePaneSession()
	w := s.ActiveWindow()
	require.NotNil(t, w)
	assert.Equal(t, "0", w.Index)
	require.NotNil(t, w.ActivePane())

	s.Windows[0].Active = false
	assert.Nil(t, s.ActiveWindow())
}

func TestValidateOptions(t *testing.T) {
	assert.NoError(t, ValidateOptions([]UserOption{{Label: "[A]ttach", Key: 'A'}, {Label: "[q]uit", Key: 'q'}}))
	assert.Error(t, ValidateOptions(nil))
	assert.Error(t, ValidateOptions([]UserOption{{Label: "one", Key: '1'}, {Label: "uno", Key: '1'}}))
}
