package family

// Sample returns a small demonstration family: a root with one former and
// one current partner, a daughter with a partner of her own, and a few
// grandchildren. It exercises every placement rule of the layout engine and
// is what `treeprint sample` writes out.
//
// Each call returns fresh slices, so callers may modify the result.
func Sample() Records {
	return Records{
		Persons: []Person{
			{ID: 1, Name: "A", Sex: Male},
			{ID: 2, Name: "B", Sex: Female, Parent: ParentOf(1)},
			{ID: 3, Name: "C", Sex: Female, Parent: ParentOf(1)},
			{ID: 4, Name: "D", Sex: Male, Parent: ParentOf(1)},
			{ID: 5, Name: "E", Sex: Male, Parent: ParentOf(4)},
			{ID: 6, Name: "F", Sex: Male, Parent: ParentOf(4)},
			{ID: 7, Name: "G", Sex: Female, Parent: ParentOf(4)},
			{ID: 8, Name: "H", Sex: Female, Parent: ParentOf(2)},
			{ID: 9, Name: "I", Sex: Female, Parent: ParentOf(2)},
			{ID: 10, Name: "Ca", Sex: Male, Parent: ParentOf(3)},
		},
		Relationships: []Partnership{
			{ID: 1, Partner: 1, Name: "SA_2", Sex: Female, Children: []int{4}, Since: "2015-10-01"},
			{ID: 2, Partner: 1, Name: "SA_1", Sex: Female, Children: []int{2, 3}, Since: "2010-09-20", Till: "2015-05-18"},
			{ID: 3, Partner: 4, Name: "SD_1", Sex: Female, Children: []int{5, 6, 7}, Since: "2015-05-20"},
			{ID: 4, Partner: 2, Name: "SB_1", Sex: Male, Children: []int{8, 9}, Since: "2015-05-20"},
		},
	}
}
