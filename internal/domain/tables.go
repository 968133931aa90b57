package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysUser{},
	&SysSession{},
	&SysUserLog{},
	// Catalog
	&Product{},
	&Service{},
	&NewsItem{},
	&JobPosting{},
	&Sale{},
}
