package mocks

//go:generate mockery --name CounterStore --srcpkg github.com/aevon-lab/salespulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name OrderLedger --srcpkg github.com/aevon-lab/salespulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
