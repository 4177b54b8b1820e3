package methods

import "github.com/timrosenblatt/amqp091/internal/buffer"

const classTx = 90

const (
	methodTxSelect     = 10
	methodTxSelectOk   = 11
	methodTxCommit     = 20
	methodTxCommitOk   = 21
	methodTxRollback   = 30
	methodTxRollbackOk = 31
)

func init() {
	register(classTx, methodTxSelect, func() Method { return &TxSelect{} })
	register(classTx, methodTxSelectOk, func() Method { return &TxSelectOk{} })
	register(classTx, methodTxCommit, func() Method { return &TxCommit{} })
	register(classTx, methodTxCommitOk, func() Method { return &TxCommitOk{} })
	register(classTx, methodTxRollback, func() Method { return &TxRollback{} })
	register(classTx, methodTxRollbackOk, func() Method { return &TxRollbackOk{} })
}

// TxSelect puts the channel into transactional mode.
type TxSelect struct{}

func (*TxSelect) ClassID() uint16        { return classTx }
func (*TxSelect) MethodID() uint16       { return methodTxSelect }
func (*TxSelect) IsClientSide() bool     { return true }
func (*TxSelect) marshal(*buffer.Buffer) error   { return nil }
func (*TxSelect) unmarshal(*buffer.Buffer) error { return nil }

// TxSelectOk confirms a TxSelect.
type TxSelectOk struct{}

func (*TxSelectOk) ClassID() uint16        { return classTx }
func (*TxSelectOk) MethodID() uint16       { return methodTxSelectOk }
func (*TxSelectOk) IsClientSide() bool     { return false }
func (*TxSelectOk) marshal(*buffer.Buffer) error   { return nil }
func (*TxSelectOk) unmarshal(*buffer.Buffer) error { return nil }

// TxCommit commits the current transaction.
type TxCommit struct{}

func (*TxCommit) ClassID() uint16        { return classTx }
func (*TxCommit) MethodID() uint16       { return methodTxCommit }
func (*TxCommit) IsClientSide() bool     { return true }
func (*TxCommit) marshal(*buffer.Buffer) error   { return nil }
func (*TxCommit) unmarshal(*buffer.Buffer) error { return nil }

// TxCommitOk confirms a TxCommit.
type TxCommitOk struct{}

func (*TxCommitOk) ClassID() uint16        { return classTx }
func (*TxCommitOk) MethodID() uint16       { return methodTxCommitOk }
func (*TxCommitOk) IsClientSide() bool     { return false }
func (*TxCommitOk) marshal(*buffer.Buffer) error   { return nil }
func (*TxCommitOk) unmarshal(*buffer.Buffer) error { return nil }

// TxRollback discards the work of the current transaction.
type TxRollback struct{}

func (*TxRollback) ClassID() uint16        { return classTx }
func (*TxRollback) MethodID() uint16       { return methodTxRollback }
func (*TxRollback) IsClientSide() bool     { return true }
func (*TxRollback) marshal(*buffer.Buffer) error   { return nil }
func (*TxRollback) unmarshal(*buffer.Buffer) error { return nil }

// TxRollbackOk confirms a TxRollback.
type TxRollbackOk struct{}

func (*TxRollbackOk) ClassID() uint16        { return classTx }
func (*TxRollbackOk) MethodID() uint16       { return methodTxRollbackOk }
func (*TxRollbackOk) IsClientSide() bool     { return false }
func (*TxRollbackOk) marshal(*buffer.Buffer) error   { return nil }
func (*TxRollbackOk) unmarshal(*buffer.Buffer) error { return nil }
