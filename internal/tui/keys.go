package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Keybinding modes accepted in config.yaml
const (
	KeysVim      = "vim"
	KeysStandard = "standard"
)

// KeyMap defines keybindings for the TUI
type KeyMap struct {
	mode string
}

// NewKeyMap creates a new keymap for the given mode
func NewKeyMap(mode string) *KeyMap {
	if mode != KeysStandard {
		mode = KeysVim
	}
	return &KeyMap{mode: mode}
}

// Mode returns the current keybinding mode
func (k *KeyMap) Mode() string {
	return k.mode
}

func (k *KeyMap) vim(msg tea.KeyMsg, key string) bool {
	return k.mode == KeysVim && msg.String() == key
}

// IsUp returns true if the key is an "up" navigation key
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyUp || k.vim(msg, "k")
}

// IsDown returns true if the key is a "down" navigation key
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyDown || k.vim(msg, "j")
}

// IsLeft returns true if the key is a "left" navigation key
func (k *KeyMap) IsLeft(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyLeft || k.vim(msg, "h")
}

// IsRight returns true if the key is a "right" navigation key
func (k *KeyMap) IsRight(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRight || k.vim(msg, "l")
}

// IsHome returns true if the key should go to first item
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyHome || k.vim(msg, "g")
}

// IsEnd returns true if the key should go to last item
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnd || k.vim(msg, "G")
}

// IsConfirm returns true if the key is a confirm/select key
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter
}

// IsCancel returns true if the key is a cancel/back key
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

// IsQuit returns true if the key is a quit key
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsDelete returns true if the key is a delete key
func (k *KeyMap) IsDelete(msg tea.KeyMsg) bool {
	return msg.String() == "d" || msg.Type == tea.KeyDelete
}

// IsRefresh returns true if the key should rescan the root
func (k *KeyMap) IsRefresh(msg tea.KeyMsg) bool {
	return msg.String() == "r" || msg.Type == tea.KeyF5
}

// IsToggleTheme returns true if the key switches between dark and light
func (k *KeyMap) IsToggleTheme(msg tea.KeyMsg) bool {
	return msg.String() == "t"
}

// IsHelp returns true if the key should show help
func (k *KeyMap) IsHelp(msg tea.KeyMsg) bool {
	return msg.String() == "?"
}

// NavigationHelp returns help text for navigation keys
func (k *KeyMap) NavigationHelp() string {
	if k.mode == KeysVim {
		return "j/k: navigate"
	}
	return "↑/↓: navigate"
}

// FullHelp returns complete help text
func (k *KeyMap) FullHelp() string {
	if k.mode == KeysVim {
		return `Navigation:
  j/k     Move down/up
  g/G     Go to first/last item
  enter   Open instance
  esc     Back

Actions:
  p       Play
  n       New instance
  e       Edit instance
  d       Delete instance / remove mod
  r       Refresh
  t       Toggle dark/light
  ?       Help
  q       Quit`
	}

	return `Navigation:
  ↑/↓     Move up/down
  Home    Go to first item
  End     Go to last item
  Enter   Open instance
  Esc     Back

Actions:
  p       Play
  n       New instance
  e       Edit instance
  Delete  Delete instance / remove mod
  F5      Refresh
  t       Toggle dark/light
  ?       Help
  q       Quit`
}
