//go:build windows

package resources

import (
	"fmt"
	"unsafe"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// Kernel32Updater drives BeginUpdateResourceW, UpdateResourceW and
// EndUpdateResourceW. The procedures are bound per updater value.
type Kernel32Updater struct {
	begin  *windows.LazyProc
	update *windows.LazyProc
	end    *windows.LazyProc
	logger hclog.Logger
}

// NewKernel32Updater binds the resource update procedures of kernel32.dll.
func NewKernel32Updater(logger hclog.Logger) (Updater, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	k32 := windows.NewLazySystemDLL("kernel32.dll")
	u := &Kernel32Updater{
		begin:  k32.NewProc("BeginUpdateResourceW"),
		update: k32.NewProc("UpdateResourceW"),
		end:    k32.NewProc("EndUpdateResourceW"),
		logger: logger,
	}
	for _, p := range []*windows.LazyProc{u.begin, u.update, u.end} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", p.Name, err)
		}
	}
	return u, nil
}

// Begin opens path with bDeleteExistingResources = FALSE.
func (u *Kernel32Updater) Begin(path string) (Transaction, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, _, callErr := u.begin.Call(uintptr(unsafe.Pointer(p)), 0)
	if h == 0 {
		return nil, callErr
	}
	u.logger.Debug("Opened resource update handle", "container", path, "handle", h)
	return &kernel32Tx{u: u, h: h, path: path}, nil
}

type kernel32Tx struct {
	u     *Kernel32Updater
	h     uintptr
	path  string
	ended bool
}

// Update passes typeID and resID as MAKEINTRESOURCE ordinals.
func (tx *kernel32Tx) Update(typeID, resID, langID uint16, data []byte) error {
	if tx.ended {
		return ErrTransactionEnded
	}
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	ok, _, callErr := tx.u.update.Call(
		tx.h,
		uintptr(typeID),
		uintptr(resID),
		uintptr(langID),
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
	)
	if ok == 0 {
		return callErr
	}
	return nil
}

func (tx *kernel32Tx) Commit() error {
	return tx.finish(false)
}

func (tx *kernel32Tx) Discard() error {
	return tx.finish(true)
}

func (tx *kernel32Tx) finish(discard bool) error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.ended = true

	var flag uintptr
	if discard {
		flag = 1
	}
	ok, _, callErr := tx.u.end.Call(tx.h, flag)
	if ok == 0 {
		return callErr
	}
	tx.u.logger.Debug("Closed resource update handle", "container", tx.path, "discarded", discard)
	return nil
}
