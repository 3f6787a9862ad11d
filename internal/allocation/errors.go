package allocation

import (
	"errors"
)

var (
	ErrInvalidAmount = errors.New("source amounts must be larger than zero")
	ErrItemNotFound  = errors.New("no budget item found for ID")
	ErrFolderTarget  = errors.New("folders can not be linked, pick a budget item inside the folder")
)
