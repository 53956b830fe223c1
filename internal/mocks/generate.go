package mocks

//go:generate mockery --name Store --srcpkg github.com/aevon-lab/uniqterms/internal/cache --output ./cache --outpkg cachemocks --with-expecter
//go:generate mockery --name Searcher --srcpkg github.com/aevon-lab/uniqterms/internal/scatter --output ./scatter --outpkg scattermocks --with-expecter
//go:generate mockery --name Writer --srcpkg github.com/aevon-lab/uniqterms/internal/scatter --output ./scatter --outpkg scattermocks --with-expecter
//go:generate mockery --name Enumerator --srcpkg github.com/aevon-lab/uniqterms/internal/partition --output ./partition --outpkg partitionmocks --with-expecter
