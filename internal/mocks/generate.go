package mocks

//go:generate mockery --name Repository --srcpkg github.com/aevon-lab/dashpoints/internal/widget --output ./widget --outpkg widgetmocks --with-expecter
