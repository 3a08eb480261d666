package compiler

func (pc *ProcessCompiler) Variant() Variant {
	return pc.variant
}
