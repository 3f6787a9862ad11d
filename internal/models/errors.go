package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrScenarioNameNotUnique          = errors.New("the scenario name is already in use")
	ErrBudgetItemNameNotUnique        = errors.New("budget item names must be unique per scenario")
	ErrBudgetItemParentNotFolder      = errors.New("the parent of a budget item must be a folder")
	ErrBudgetItemFolderCycle          = errors.New("a budget item folder can not contain itself")
	ErrBudgetItemHasChildren          = errors.New("this folder still contains budget items")
	ErrExpenseAmountNotPositive       = errors.New("expense amounts must be larger than zero")
	ErrGiftAmountNotPositive          = errors.New("gift amounts must be larger than zero")
	ErrExpenseStatusInvalid           = errors.New("the specified payment status is invalid")
	ErrGiftTypeInvalid                = errors.New("the specified gift type is invalid")
	ErrGuestRSVPStatusInvalid         = errors.New("the specified RSVP status is invalid")
	ErrScenarioCurrencyInvalid        = errors.New("the specified currency is not a valid ISO 4217 code")
	ErrAllocationNotUnique            = errors.New("there is already an allocation for this source and budget item in this scenario")
	ErrLinkRuleMatchEmpty             = errors.New("the match of a link rule must not be empty")
	ErrAllocationAmountNegative       = errors.New("allocation amounts must not be negative")
	ErrAllocationBudgetItemIsFolder   = errors.New("folders can not have allocations, link a budget item inside the folder instead")
	ErrAllocationScenarioItemMismatch = errors.New("the budget item does not belong to the scenario of the allocation")
)
