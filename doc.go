/*
Package modchain implements the modulus-chain construction and selection
subsystem for RNS-based homomorphic encryption schemes in the BGV/CKKS
family. It generates the coprime prime moduli underlying ciphertext
arithmetic, partitions them into small/ciphertext/special roles, and
provides fast runtime selection of prime subsets within a target log-size
window via a pre-computed table.
*/
package modchain
